// Package user defines the User entity and its governance chain.
package user

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourbase/internal/governance"
)

// CollectionName is the MongoDB collection for users.
const CollectionName = "users"

// User is an account holder. The password hash, reset-token fields and
// the active flag never serialize outward.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Photo                string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role                 Role               `bson:"role" json:"role"`
	Password             string             `bson:"password" json:"-"`
	PasswordConfirm      string             `bson:"-" json:"-"`
	PasswordChangedAt    *time.Time         `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   string             `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time         `bson:"passwordResetExpires,omitempty" json:"-"`
	Active               bool               `bson:"active" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}

// Role is the authorization role of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// IsValid checks the role value.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleGuide || r == RoleLeadGuide || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// SetDefaults normalizes the email and fills defaulted fields before
// the first save.
func (u *User) SetDefaults() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Active = true
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
}

// Validate checks the user at creation time. Password rules apply to
// the plaintext, before the credential manager hashes it.
func (u *User) Validate() error {
	err := validation.ValidateStruct(u,
		validation.Field(&u.Name, validation.Required.Error("please tell us your name")),
		validation.Field(&u.Email,
			validation.Required.Error("please provide your email"),
			is.Email.Error("please provide a valid email")),
		validation.Field(&u.Role, validation.By(validRole)),
		validation.Field(&u.Password,
			validation.Required.Error("please provide a password"),
			validation.Length(8, 0).Error("password must be at least 8 characters")),
		validation.Field(&u.PasswordConfirm,
			validation.Required.Error("please confirm your password")),
	)
	if err != nil {
		return err
	}

	if u.Password != u.PasswordConfirm {
		return validation.Errors{
			"passwordConfirm": validation.NewError("validation_passwords_differ", "passwords are not the same"),
		}
	}
	return nil
}

func validRole(value any) error {
	role, _ := value.(Role)
	if role != "" && !role.IsValid() {
		return validation.NewError("validation_invalid_role", "role must be one of: user, guide, lead-guide, admin")
	}
	return nil
}

// Collection implements mongodb.Model.
func (u *User) Collection() string {
	return CollectionName
}

// EnsureIndexes implements mongodb.Model.
func (u *User) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "passwordResetToken", Value: 1}},
			Options: options.Index().SetName("idx_reset_token").SetSparse(true),
		},
	}
	_, err := db.Collection(CollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}

// chain hides soft-deactivated accounts from every read.
var chain = governance.NewChain(CollectionName).
	BeforeQuery("hide-inactive-users", hideInactive)

// Hooks returns the user governance chain.
func Hooks() *governance.Chain {
	return chain
}

func hideInactive(ctx context.Context, q *governance.Query) error {
	q.Require(bson.M{"active": bson.M{"$ne": false}})
	return nil
}
