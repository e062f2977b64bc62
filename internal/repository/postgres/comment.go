package postgres

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const commentColumns = "c.id, c.post_id, c.author_id, c.content, c.created_at, c.updated_at"

type commentRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newCommentRepo(db *pgxpool.Pool, logger *zap.Logger) *commentRepo {
	return &commentRepo{
		db:     db,
		logger: logger,
	}
}

func commentFields(comment *model.Comment) []any {
	return []any{
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	}
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	if err := row.Scan(commentFields(&comment)...); err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func collectFullComments(rows pgx.Rows) ([]*model.FullComment, error) {
	defer rows.Close()

	comments := make([]*model.FullComment, 0)
	for rows.Next() {
		var (
			comment model.FullComment
			author  authorScan
		)
		if err := rows.Scan(append(commentFields(&comment.Comment), author.fields()...)...); err != nil {
			return nil, err
		}

		comment.Author = author.result()
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	return scanComment(r.db.QueryRow(
		ctx,
		`INSERT INTO comments AS c (id, post_id, author_id, content) VALUES($1, $2, $3, $4)
		RETURNING `+commentColumns,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
	))
}

func (r *commentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullComment, error) {
	if len(ids) == 0 {
		return []*model.FullComment{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+commentColumns+`, `+authorColumns("c")+`
		FROM comments c
		LEFT JOIN users u ON c.author_id = u.id
		WHERE c.id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}

	found, err := collectFullComments(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.FullComment, len(found))
	for _, comment := range found {
		byID[comment.ID] = comment
	}

	comments := make([]*model.FullComment, 0, len(found))
	for _, id := range ids {
		if comment, ok := byID[id]; ok {
			comments = append(comments, comment)
		}
	}

	return comments, nil
}

func (r *commentRepo) FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Comment, error) {
	return scanComment(r.db.QueryRow(
		ctx,
		"SELECT "+commentColumns+" FROM comments c WHERE c.id = $1 AND c.author_id = $2",
		id,
		authorID,
	))
}

func (r *commentRepo) Paginate(ctx context.Context, postID uuid.UUID, req paging.Request) ([]*model.FullComment, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM comments WHERE post_id = $1", postID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+commentColumns+`, `+authorColumns("c")+`
		FROM comments c
		LEFT JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		`+orderBy("c", req)+`
		LIMIT $2
		OFFSET $3`,
		postID,
		req.Limit,
		req.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}

	comments, err := collectFullComments(rows)
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *commentRepo) Update(ctx context.Context, id uuid.UUID, update model.CommentUpdate) (*model.Comment, error) {
	return scanComment(r.db.QueryRow(
		ctx,
		`UPDATE comments AS c SET
		content = COALESCE($2, c.content),
		updated_at = now()
		WHERE c.id = $1
		RETURNING `+commentColumns,
		id,
		update.Content,
	))
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *commentRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE post_id = $1", postID)
	if err != nil {
		return 0, err
	}

	r.logger.Debug("deleted post comments", zap.String("post_id", postID.String()), zap.Int64("count", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}
