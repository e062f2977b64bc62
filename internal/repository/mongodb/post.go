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
)

type postDoc struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"author"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Tags      []string  `bson:"tags"`
	Comments  []string  `bson:"comments"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d postDoc) model() *model.Post {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	return &model.Post{
		ID:        parseID(d.ID),
		AuthorID:  parseID(d.AuthorID),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      tags,
		Comments:  parseIDs(d.Comments),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type postRepo struct {
	posts   *mongo.Collection
	authors *authorLoader
}

func (r *postRepo) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]postDoc, error) {
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *postRepo) full(ctx context.Context, docs []postDoc) ([]*model.FullPost, error) {
	authorIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		authorIDs = append(authorIDs, doc.AuthorID)
	}

	authors, err := r.authors.load(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	posts := make([]*model.FullPost, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, &model.FullPost{
			Post:   *doc.model(),
			Author: r.authors.author(authors, doc.AuthorID),
		})
	}
	return posts, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now().UTC()
	doc := postDoc{
		ID:        post.ID.String(),
		AuthorID:  post.AuthorID.String(),
		Title:     post.Title,
		Content:   post.Content,
		Tags:      post.Tags,
		Comments:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return doc.model(), nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}

	posts, err := r.full(ctx, []postDoc{doc})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (r *postRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullPost, error) {
	if len(ids) == 0 {
		return []*model.FullPost{}, nil
	}

	cursor, err := r.posts.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}})
	if err != nil {
		return nil, err
	}

	docs, err := r.decodeAll(ctx, cursor)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]postDoc, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	ordered := make([]postDoc, 0, len(docs))
	for _, id := range ids {
		if doc, ok := byID[id.String()]; ok {
			ordered = append(ordered, doc)
		}
	}

	return r.full(ctx, ordered)
}

func (r *postRepo) FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Post, error) {
	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.M{"_id": id.String(), "author": authorID.String()}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.model(), nil
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	cursor, err := r.posts.Find(
		ctx,
		bson.M{"author": authorID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	docs, err := r.decodeAll(ctx, cursor)
	if err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, doc.model())
	}
	return posts, nil
}

func postFilter(filter model.PostFilter) bson.M {
	query := bson.M{}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	if filter.AuthorID != nil {
		query["author"] = filter.AuthorID.String()
	}
	return query
}

func (r *postRepo) Paginate(ctx context.Context, filter model.PostFilter, req paging.Request) ([]*model.FullPost, int64, error) {
	query := postFilter(filter)

	total, err := r.posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.posts.Find(ctx, query, findPage(req))
	if err != nil {
		return nil, 0, err
	}

	docs, err := r.decodeAll(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	posts, err := r.full(ctx, docs)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepo) Update(ctx context.Context, id uuid.UUID, update model.PostUpdate) (*model.Post, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}

	var doc postDoc
	err := r.posts.FindOneAndUpdate(
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

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *postRepo) PushComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error {
	result, err := r.posts.UpdateOne(
		ctx,
		bson.M{"_id": postID.String()},
		bson.M{"$addToSet": bson.M{"comments": commentID.String()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *postRepo) PullComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error {
	result, err := r.posts.UpdateOne(
		ctx,
		bson.M{"_id": postID.String()},
		bson.M{"$pull": bson.M{"comments": commentID.String()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
