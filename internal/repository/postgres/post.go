package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = "p.id, p.author_id, p.title, p.content, p.tags, p.comments, p.created_at, p.updated_at"

// authorColumns selects the author projection from a LEFT JOIN on users. A missing user
// row yields an author carrying only the id, like the other backends.
func authorColumns(owner string) string {
	return fmt.Sprintf(
		"%s.author_id, COALESCE(u.username, ''), COALESCE(u.email, ''), u.profile_picture_url, u.profile_picture_public_id",
		owner,
	)
}

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) *postRepo {
	return &postRepo{
		db: db,
	}
}

func postFields(post *model.Post) []any {
	return []any{
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Tags,
		&post.Comments,
		&post.CreatedAt,
		&post.UpdatedAt,
	}
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	if err := row.Scan(postFields(&post)...); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

type authorScan struct {
	author     model.Author
	pictureURL *string
	pictureID  *string
}

func (a *authorScan) fields() []any {
	return []any{&a.author.ID, &a.author.Username, &a.author.Email, &a.pictureURL, &a.pictureID}
}

func (a *authorScan) result() model.Author {
	a.author.ProfilePicture = picture(a.pictureURL, a.pictureID)
	return a.author
}

func scanFullPost(row pgx.Row) (*model.FullPost, error) {
	var (
		post   model.FullPost
		author authorScan
	)
	if err := row.Scan(append(postFields(&post.Post), author.fields()...)...); err != nil {
		return nil, notFound(err)
	}

	post.Author = author.result()
	return &post, nil
}

func collectFullPosts(rows pgx.Rows) ([]*model.FullPost, error) {
	defer rows.Close()

	posts := make([]*model.FullPost, 0)
	for rows.Next() {
		post, err := scanFullPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}

	return scanPost(r.db.QueryRow(
		ctx,
		`INSERT INTO posts AS p (id, author_id, title, content, tags) VALUES($1, $2, $3, $4, $5)
		RETURNING `+postColumns,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Content,
		post.Tags,
	))
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	return scanFullPost(r.db.QueryRow(
		ctx,
		`SELECT `+postColumns+`, `+authorColumns("p")+`
		FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
		WHERE p.id = $1`,
		id,
	))
}

func (r *postRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullPost, error) {
	if len(ids) == 0 {
		return []*model.FullPost{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+`, `+authorColumns("p")+`
		FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
		WHERE p.id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}

	found, err := collectFullPosts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.FullPost, len(found))
	for _, post := range found {
		byID[post.ID] = post
	}

	posts := make([]*model.FullPost, 0, len(found))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			posts = append(posts, post)
		}
	}

	return posts, nil
}

func (r *postRepo) FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Post, error) {
	return scanPost(r.db.QueryRow(
		ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.id = $1 AND p.author_id = $2",
		id,
		authorID,
	))
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC",
		authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func postWhere(filter model.PostFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(p.tags)", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *postRepo) Paginate(ctx context.Context, filter model.PostFilter, req paging.Request) ([]*model.FullPost, int64, error) {
	where, args := postWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM posts p "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, req.Limit, req.Offset())
	rows, err := r.db.Query(
		ctx,
		fmt.Sprintf(
			`SELECT %s, %s
			FROM posts p
			LEFT JOIN users u ON p.author_id = u.id
			%s
			%s
			LIMIT $%d
			OFFSET $%d`,
			postColumns, authorColumns("p"), where, orderBy("p", req), len(args)-1, len(args),
		),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}

	posts, err := collectFullPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepo) Update(ctx context.Context, id uuid.UUID, update model.PostUpdate) (*model.Post, error) {
	return scanPost(r.db.QueryRow(
		ctx,
		`UPDATE posts AS p SET
		title = COALESCE($2, p.title),
		content = COALESCE($3, p.content),
		tags = COALESCE($4::text[], p.tags),
		updated_at = now()
		WHERE p.id = $1
		RETURNING `+postColumns,
		id,
		update.Title,
		update.Content,
		update.Tags,
	))
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *postRepo) PushComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE posts SET comments = CASE
			WHEN $2::uuid = ANY(comments) THEN comments
			ELSE array_append(comments, $2::uuid)
		END
		WHERE id = $1`,
		postID,
		commentID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *postRepo) PullComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "UPDATE posts SET comments = array_remove(comments, $2::uuid) WHERE id = $1", postID, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
