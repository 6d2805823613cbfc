// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/strataevents/internal/app/store/storeutil"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"github.com/dalemusser/strataevents/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding users.
const CollectionName = "users"

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidRole is returned when a role is not one of models.AllRoles.
	ErrInvalidRole = errors.New("invalid role")
)

// withoutPassword is the projection applied to every admin-facing read.
var withoutPassword = bson.M{"password": 0}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// GetByID loads a user by ObjectID. The password hash is not loaded.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetProjection(withoutPassword)
	if err := s.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by email address (case-insensitive), including
// the password hash. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	u.RegistrationNo = strings.TrimSpace(u.RegistrationNo)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleUser
	}

	if !models.IsValidRole(u.Role) {
		return models.User{}, ErrInvalidRole
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SearchFilter builds the admin list filter. A non-blank search matches
// name, email OR registration_no by case-insensitive substring; the search
// text is matched literally.
func SearchFilter(search string) bson.M {
	search = normalize.QueryParam(search)
	if search == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"email": re},
		bson.M{"registration_no": re},
	}}
}

// Page is one page of users plus the size of the full filtered result.
type Page struct {
	Users []models.User
	Total int64
}

// ListPage counts the users matching search, then returns the requested
// 1-based page sorted newest first with passwords excluded.
func (s *Store) ListPage(ctx context.Context, search string, page, limit int64) (Page, error) {
	filter := SearchFilter(search)

	total, err := s.Count(ctx, filter)
	if err != nil {
		return Page{}, err
	}

	opts := storeutil.Paginate(limit, page).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(withoutPassword)

	users, err := s.Find(ctx, filter, opts)
	if err != nil {
		return Page{}, err
	}
	if users == nil {
		users = []models.User{}
	}
	return Page{Users: users, Total: total}, nil
}

// UpdateRole sets a user's role and returns the updated user without the
// password hash. Invalid roles are rejected before touching the database.
// Returns mongo.ErrNoDocuments if no user has the given id.
func (s *Store) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}},
		opts,
	).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetRegistrants loads the whitelisted profile of each user in ids, keyed
// by id. Ids with no matching user are absent from the map.
func (s *Store) GetRegistrants(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.RegistrantProfile, error) {
	out := make(map[primitive.ObjectID]models.RegistrantProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	proj := bson.M{}
	for _, f := range models.RegistrantFields() {
		proj[f] = 1
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(proj))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []models.RegistrantProfile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

// Find returns users matching the given filter with optional find options.
// The caller is responsible for building the filter and options (pagination, sorting, projection).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
