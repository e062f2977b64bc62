// Package mongodb stores users, posts and comments as MongoDB documents. Identifiers are
// kept as UUID strings in _id so that they sort the same way as in the other backends.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
)

func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("username_unique")},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "author", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "author", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	return nil
}

func New(db *mongo.Database, logger *zap.Logger) *store.Store {
	users := db.Collection(usersCollection)
	posts := db.Collection(postsCollection)
	comments := db.Collection(commentsCollection)
	authors := &authorLoader{users: users}

	return store.New(
		&userRepo{users: users},
		&postRepo{posts: posts, authors: authors},
		&commentRepo{comments: comments, authors: authors, logger: logger},
		func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	)
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func parseIDs(ss []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		ids = append(ids, parseID(s))
	}
	return ids
}

func idStrings(ids []uuid.UUID) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.String())
	}
	return ss
}

func notFound(err error) error {
	if err == mongo.ErrNoDocuments {
		return store.ErrNotFound
	}
	return err
}

var uniqueIndexFields = map[string]string{
	"email_unique":    "email",
	"username_unique": "username",
}

// duplicateIndexPattern extracts the index name from an E11000 message, which reads
// "... index: <name> dup key: { ... }". The key values come after it, so user input cannot
// be mistaken for the index name.
var duplicateIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

func duplicateKey(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	for _, msg := range serverMessages(err) {
		match := duplicateIndexPattern.FindStringSubmatch(msg)
		if match == nil {
			continue
		}
		if field, ok := uniqueIndexFields[match[1]]; ok {
			return &store.DuplicateKeyError{Field: field}
		}
	}
	return err
}

func serverMessages(err error) []string {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		msgs := make([]string, 0, len(writeErr.WriteErrors))
		for _, we := range writeErr.WriteErrors {
			msgs = append(msgs, we.Message)
		}
		return msgs
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return []string{cmdErr.Message}
	}

	return nil
}

var sortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

func findPage(req paging.Request) *options.FindOptions {
	field, ok := sortFields[req.Sort]
	if !ok {
		field = "created_at"
	}
	direction := 1
	if req.Descending() {
		direction = -1
	}

	return options.Find().
		SetSort(bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}}).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Limit))
}

type imageDoc struct {
	URL      string `bson:"url"`
	PublicID string `bson:"public_id"`
}

type authorLoader struct {
	users *mongo.Collection
}

// load fetches the public projection of every author in ids. The password hash is never
// read.
func (l *authorLoader) load(ctx context.Context, ids []string) (map[string]model.Author, error) {
	authors := make(map[string]model.Author, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	cursor, err := l.users.Find(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"password_hash": 0}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		user := doc.model()
		authors[doc.ID] = user.Author()
	}

	return authors, nil
}

func (l *authorLoader) author(authors map[string]model.Author, id string) model.Author {
	if author, ok := authors[id]; ok {
		return author
	}
	return model.Author{ID: parseID(id)}
}
