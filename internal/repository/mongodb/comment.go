package mongodb

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type commentDoc struct {
	ID        string    `bson:"_id"`
	PostID    string    `bson:"post"`
	AuthorID  string    `bson:"author"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d commentDoc) model() *model.Comment {
	return &model.Comment{
		ID:        parseID(d.ID),
		PostID:    parseID(d.PostID),
		AuthorID:  parseID(d.AuthorID),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type commentRepo struct {
	comments *mongo.Collection
	authors  *authorLoader
	logger   *zap.Logger
}

func (r *commentRepo) full(ctx context.Context, cursor *mongo.Cursor) ([]commentDoc, map[string]model.Author, error) {
	defer cursor.Close(ctx)

	var docs []commentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, nil, err
	}

	authorIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		authorIDs = append(authorIDs, doc.AuthorID)
	}

	authors, err := r.authors.load(ctx, authorIDs)
	if err != nil {
		return nil, nil, err
	}

	return docs, authors, nil
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	now := time.Now().UTC()
	doc := commentDoc{
		ID:        comment.ID.String(),
		PostID:    comment.PostID.String(),
		AuthorID:  comment.AuthorID.String(),
		Content:   comment.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.comments.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return doc.model(), nil
}

func (r *commentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullComment, error) {
	if len(ids) == 0 {
		return []*model.FullComment{}, nil
	}

	cursor, err := r.comments.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}})
	if err != nil {
		return nil, err
	}

	docs, authors, err := r.full(ctx, cursor)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]commentDoc, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	comments := make([]*model.FullComment, 0, len(docs))
	for _, id := range ids {
		doc, ok := byID[id.String()]
		if !ok {
			continue
		}
		comments = append(comments, &model.FullComment{
			Comment: *doc.model(),
			Author:  r.authors.author(authors, doc.AuthorID),
		})
	}

	return comments, nil
}

func (r *commentRepo) FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Comment, error) {
	var doc commentDoc
	if err := r.comments.FindOne(ctx, bson.M{"_id": id.String(), "author": authorID.String()}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.model(), nil
}

func (r *commentRepo) Paginate(ctx context.Context, postID uuid.UUID, req paging.Request) ([]*model.FullComment, int64, error) {
	query := bson.M{"post": postID.String()}

	total, err := r.comments.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.comments.Find(ctx, query, findPage(req))
	if err != nil {
		return nil, 0, err
	}

	docs, authors, err := r.full(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	comments := make([]*model.FullComment, 0, len(docs))
	for _, doc := range docs {
		comments = append(comments, &model.FullComment{
			Comment: *doc.model(),
			Author:  r.authors.author(authors, doc.AuthorID),
		})
	}

	return comments, total, nil
}

func (r *commentRepo) Update(ctx context.Context, id uuid.UUID, update model.CommentUpdate) (*model.Comment, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Content != nil {
		set["content"] = *update.Content
	}

	var doc commentDoc
	err := r.comments.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}

	return doc.model(), nil
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.comments.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *commentRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	result, err := r.comments.DeleteMany(ctx, bson.M{"post": postID.String()})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("deleted post comments", zap.String("post_id", postID.String()), zap.Int64("count", result.DeletedCount))
	return result.DeletedCount, nil
}
