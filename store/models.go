package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogPost is a document of the blogs collection.
type BlogPost struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title            string             `bson:"title" json:"title"`
	Category         string             `bson:"category" json:"category"`
	ShortDescription string             `bson:"shortDescription" json:"shortDescription"`
	LongDescription  string             `bson:"longDescription" json:"longDescription"`
	Rating           float64            `bson:"rating" json:"rating"`
	Photo            string             `bson:"photo" json:"photo"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// WishlistEntry is a document of the wishlist collection. The blog fields are
// copied when the entry is created and never follow later edits to the post.
type WishlistEntry struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email            string             `bson:"email" json:"email"`
	BlogID           string             `bson:"blogId" json:"blogId"`
	Title            string             `bson:"title" json:"title"`
	Category         string             `bson:"category" json:"category"`
	ShortDescription string             `bson:"shortDescription" json:"shortDescription"`
	Photo            string             `bson:"photo" json:"photo"`
}

// Comment is a document of the comments collection. BlogID is a plain string,
// not a reference checked against the blogs collection.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BlogID    string             `bson:"blogId" json:"blogId"`
	Comment   string             `bson:"comment" json:"comment"`
	UserName  string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserEmail string             `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	UserPhoto string             `bson:"userPhoto,omitempty" json:"userPhoto,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
