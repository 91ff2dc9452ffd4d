package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/domain/model"
)

// uniqueViolation is the Postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

// schema bootstraps the tables PGStore needs. Point columns are numeric;
// they round-trip through text to keep decimal semantics intact.
const schema = `
CREATE TABLE IF NOT EXISTS members (
	id BIGINT PRIMARY KEY,
	username TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fics (
	id BIGINT PRIMARY KEY,
	title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fic_authors (
	fic_id BIGINT NOT NULL REFERENCES fics (id),
	member_id BIGINT NOT NULL,
	PRIMARY KEY (fic_id, member_id)
);
CREATE TABLE IF NOT EXISTS chapters (
	id BIGINT PRIMARY KEY,
	fic_id BIGINT NOT NULL REFERENCES fics (id),
	number INT NOT NULL,
	word_count INT NOT NULL
);
CREATE TABLE IF NOT EXISTS blitzes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NOT NULL,
	scoring_name TEXT NOT NULL,
	min_words INT NOT NULL,
	words_per_chapter INT NOT NULL,
	chapter_points NUMERIC(6,2) NOT NULL,
	consecutive_chapter_interval INT NOT NULL,
	consecutive_chapter_bonus NUMERIC(6,2) NOT NULL,
	theme_bonus NUMERIC(6,2) NOT NULL,
	long_chapter_bonus_words INT NOT NULL,
	long_chapter_bonus NUMERIC(6,2) NOT NULL,
	heat_bonus_multiplier NUMERIC(6,2) NOT NULL,
	heat_threshold_tier_1 INT NOT NULL,
	heat_threshold_tier_2 INT NOT NULL,
	max_heat_bonus_tier_0 NUMERIC(6,2) NOT NULL,
	max_heat_bonus_tier_1 NUMERIC(6,2) NOT NULL,
	max_heat_bonus NUMERIC(6,2) NOT NULL
);
CREATE TABLE IF NOT EXISTS blitz_themes (
	blitz_id TEXT NOT NULL REFERENCES blitzes (id),
	week INT NOT NULL,
	theme_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	claimable TEXT NOT NULL,
	subsequent_chapter_theme_bonus BOOLEAN NOT NULL,
	consecutive_chapter_bonus_applies BOOLEAN NOT NULL,
	PRIMARY KEY (blitz_id, week)
);
CREATE TABLE IF NOT EXISTS blitz_reviews (
	blitz_id TEXT NOT NULL REFERENCES blitzes (id),
	post_id BIGINT NOT NULL UNIQUE,
	author_id BIGINT NOT NULL,
	fic_id BIGINT NOT NULL,
	posted_date TIMESTAMPTZ NOT NULL,
	word_count INT NOT NULL,
	chapters INT NOT NULL,
	theme BOOLEAN NOT NULL DEFAULT FALSE,
	score NUMERIC(8,2) NOT NULL,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	heat_bonus NUMERIC(6,2) NOT NULL DEFAULT 0,
	PRIMARY KEY (blitz_id, post_id)
);
CREATE TABLE IF NOT EXISTS chapter_links (
	blitz_id TEXT NOT NULL,
	post_id BIGINT NOT NULL,
	chapter_id BIGINT NOT NULL REFERENCES chapters (id),
	PRIMARY KEY (blitz_id, post_id, chapter_id),
	FOREIGN KEY (blitz_id, post_id) REFERENCES blitz_reviews (blitz_id, post_id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS blitz_users (
	blitz_id TEXT NOT NULL REFERENCES blitzes (id),
	member_id BIGINT NOT NULL,
	bonus_points NUMERIC(8,2) NOT NULL DEFAULT 0,
	points_spent NUMERIC(8,2) NOT NULL DEFAULT 0,
	PRIMARY KEY (blitz_id, member_id)
);
`

// PGStore is the Postgres-backed Store, used when a database URL is
// configured. Duplicate submissions are caught by the unique post_id
// constraint rather than a read-then-write.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore connects to Postgres and bootstraps the schema.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &PGStore{db: pool}, nil
}

var _ Store = (*PGStore)(nil)

// Close releases the connection pool.
func (s *PGStore) Close() {
	s.db.Close()
}

func (s *PGStore) SaveBlitz(ctx context.Context, b model.ReviewBlitz) error {
	query := `
		INSERT INTO blitzes (
			id, title, start_date, end_date, scoring_name,
			min_words, words_per_chapter, chapter_points,
			consecutive_chapter_interval, consecutive_chapter_bonus, theme_bonus,
			long_chapter_bonus_words, long_chapter_bonus, heat_bonus_multiplier,
			heat_threshold_tier_1, heat_threshold_tier_2,
			max_heat_bonus_tier_0, max_heat_bonus_tier_1, max_heat_bonus
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title,
			start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date
	`
	r := b.Scoring
	_, err := s.db.Exec(ctx, query,
		b.ID, b.Title, b.StartDate, b.EndDate, r.Name,
		r.MinWords, r.WordsPerChapter, r.ChapterPoints.String(),
		r.ConsecutiveChapterInterval, r.ConsecutiveChapterBonus.String(), r.ThemeBonus.String(),
		r.LongChapterBonusWords, r.LongChapterBonus.String(), r.HeatBonusMultiplier.String(),
		r.HeatBonusThresholdTier1, r.HeatBonusThresholdTier2,
		r.MaxHeatBonusTier0.String(), r.MaxHeatBonusTier1.String(), r.MaxHeatBonus.String(),
	)
	if err != nil {
		return err
	}
	for _, t := range b.Themes {
		themeQuery := `
			INSERT INTO blitz_themes (
				blitz_id, week, theme_id, name, description, claimable,
				subsequent_chapter_theme_bonus, consecutive_chapter_bonus_applies
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (blitz_id, week) DO NOTHING
		`
		if _, err := s.db.Exec(ctx, themeQuery,
			b.ID, t.Week, t.Theme.ID, t.Theme.Name, t.Theme.Description,
			string(t.Theme.Claimable), t.Theme.SubsequentChapterThemeBonus,
			t.Theme.ConsecutiveChapterBonusApplies,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) Blitz(ctx context.Context, id string) (model.ReviewBlitz, error) {
	query := `
		SELECT id, title, start_date, end_date, scoring_name,
			min_words, words_per_chapter, chapter_points::text,
			consecutive_chapter_interval, consecutive_chapter_bonus::text, theme_bonus::text,
			long_chapter_bonus_words, long_chapter_bonus::text, heat_bonus_multiplier::text,
			heat_threshold_tier_1, heat_threshold_tier_2,
			max_heat_bonus_tier_0::text, max_heat_bonus_tier_1::text, max_heat_bonus::text
		FROM blitzes WHERE id = $1
	`
	b, err := s.scanBlitz(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.ReviewBlitz{}, err
	}
	if err := s.loadThemes(ctx, &b); err != nil {
		return model.ReviewBlitz{}, err
	}
	return b, nil
}

func (s *PGStore) Blitzes(ctx context.Context) ([]model.ReviewBlitz, error) {
	query := `
		SELECT id, title, start_date, end_date, scoring_name,
			min_words, words_per_chapter, chapter_points::text,
			consecutive_chapter_interval, consecutive_chapter_bonus::text, theme_bonus::text,
			long_chapter_bonus_words, long_chapter_bonus::text, heat_bonus_multiplier::text,
			heat_threshold_tier_1, heat_threshold_tier_2,
			max_heat_bonus_tier_0::text, max_heat_bonus_tier_1::text, max_heat_bonus::text
		FROM blitzes ORDER BY start_date
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReviewBlitz
	for rows.Next() {
		b, err := s.scanBlitz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadThemes(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// scanBlitz reads one blitz row; decimal columns arrive as text.
func (s *PGStore) scanBlitz(row pgx.Row) (model.ReviewBlitz, error) {
	var (
		b model.ReviewBlitz
		r model.ScoringRules

		chapterPoints, consecutiveBonus, themeBonus string
		longBonus, heatMultiplier                   string
		maxHeatTier0, maxHeatTier1, maxHeat         string
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.StartDate, &b.EndDate, &r.Name,
		&r.MinWords, &r.WordsPerChapter, &chapterPoints,
		&r.ConsecutiveChapterInterval, &consecutiveBonus, &themeBonus,
		&r.LongChapterBonusWords, &longBonus, &heatMultiplier,
		&r.HeatBonusThresholdTier1, &r.HeatBonusThresholdTier2,
		&maxHeatTier0, &maxHeatTier1, &maxHeat,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ReviewBlitz{}, ErrNotFound
		}
		return model.ReviewBlitz{}, err
	}
	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&r.ChapterPoints, chapterPoints},
		{&r.ConsecutiveChapterBonus, consecutiveBonus},
		{&r.ThemeBonus, themeBonus},
		{&r.LongChapterBonus, longBonus},
		{&r.HeatBonusMultiplier, heatMultiplier},
		{&r.MaxHeatBonusTier0, maxHeatTier0},
		{&r.MaxHeatBonusTier1, maxHeatTier1},
		{&r.MaxHeatBonus, maxHeat},
	} {
		d, err := decimal.NewFromString(field.src)
		if err != nil {
			return model.ReviewBlitz{}, fmt.Errorf("parse decimal column: %w", err)
		}
		*field.dst = d
	}
	b.Scoring = r
	return b, nil
}

func (s *PGStore) loadThemes(ctx context.Context, b *model.ReviewBlitz) error {
	query := `
		SELECT week, theme_id, name, description, claimable,
			subsequent_chapter_theme_bonus, consecutive_chapter_bonus_applies
		FROM blitz_themes WHERE blitz_id = $1 ORDER BY week
	`
	rows, err := s.db.Query(ctx, query, b.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			bt        model.BlitzTheme
			claimable string
		)
		if err := rows.Scan(&bt.Week, &bt.Theme.ID, &bt.Theme.Name, &bt.Theme.Description,
			&claimable, &bt.Theme.SubsequentChapterThemeBonus,
			&bt.Theme.ConsecutiveChapterBonusApplies); err != nil {
			return err
		}
		bt.Theme.Claimable = model.ClaimPolicy(claimable)
		b.Themes = append(b.Themes, bt)
	}
	return rows.Err()
}

func (s *PGStore) SaveMember(ctx context.Context, m model.Member) error {
	query := `
		INSERT INTO members (id, username) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
	`
	_, err := s.db.Exec(ctx, query, m.ID, m.Username)
	return err
}

func (s *PGStore) Member(ctx context.Context, id int64) (model.Member, error) {
	var m model.Member
	err := s.db.QueryRow(ctx, `SELECT id, username FROM members WHERE id = $1`, id).
		Scan(&m.ID, &m.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Member{}, ErrNotFound
	}
	return m, err
}

func (s *PGStore) Members(ctx context.Context) (map[int64]model.Member, error) {
	rows, err := s.db.Query(ctx, `SELECT id, username FROM members`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.Member)
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Username); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}

func (s *PGStore) SaveFic(ctx context.Context, f model.Fic) error {
	query := `
		INSERT INTO fics (id, title) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title
	`
	if _, err := s.db.Exec(ctx, query, f.ID, f.Title); err != nil {
		return err
	}
	for _, authorID := range f.Authors {
		authorQuery := `
			INSERT INTO fic_authors (fic_id, member_id) VALUES ($1, $2)
			ON CONFLICT (fic_id, member_id) DO NOTHING
		`
		if _, err := s.db.Exec(ctx, authorQuery, f.ID, authorID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) Fic(ctx context.Context, id int64) (model.Fic, error) {
	var f model.Fic
	err := s.db.QueryRow(ctx, `SELECT id, title FROM fics WHERE id = $1`, id).
		Scan(&f.ID, &f.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Fic{}, ErrNotFound
	}
	if err != nil {
		return model.Fic{}, err
	}
	rows, err := s.db.Query(ctx, `SELECT member_id FROM fic_authors WHERE fic_id = $1 ORDER BY member_id`, id)
	if err != nil {
		return model.Fic{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var authorID int64
		if err := rows.Scan(&authorID); err != nil {
			return model.Fic{}, err
		}
		f.Authors = append(f.Authors, authorID)
	}
	return f, rows.Err()
}

func (s *PGStore) Fics(ctx context.Context) (map[int64]model.Fic, error) {
	rows, err := s.db.Query(ctx, `SELECT id, title FROM fics`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.Fic)
	for rows.Next() {
		var f model.Fic
		if err := rows.Scan(&f.ID, &f.Title); err != nil {
			return nil, err
		}
		out[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	authorRows, err := s.db.Query(ctx, `SELECT fic_id, member_id FROM fic_authors`)
	if err != nil {
		return nil, err
	}
	defer authorRows.Close()
	for authorRows.Next() {
		var ficID, memberID int64
		if err := authorRows.Scan(&ficID, &memberID); err != nil {
			return nil, err
		}
		f := out[ficID]
		f.Authors = append(f.Authors, memberID)
		out[ficID] = f
	}
	return out, authorRows.Err()
}

func (s *PGStore) SaveChapter(ctx context.Context, c model.Chapter) error {
	query := `
		INSERT INTO chapters (id, fic_id, number, word_count) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET word_count = EXCLUDED.word_count
	`
	_, err := s.db.Exec(ctx, query, c.ID, c.FicID, c.Number, c.WordCount)
	return err
}

func (s *PGStore) Chapter(ctx context.Context, id int64) (model.Chapter, error) {
	var c model.Chapter
	err := s.db.QueryRow(ctx, `SELECT id, fic_id, number, word_count FROM chapters WHERE id = $1`, id).
		Scan(&c.ID, &c.FicID, &c.Number, &c.WordCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Chapter{}, ErrNotFound
	}
	return c, err
}

func (s *PGStore) AddBlitzReview(ctx context.Context, br model.BlitzReview, links []model.ReviewChapterLink) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO blitz_reviews (
			blitz_id, post_id, author_id, fic_id, posted_date,
			word_count, chapters, theme, score, approved, heat_bonus
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err = tx.Exec(ctx, query,
		br.BlitzID, br.Review.PostID, br.Review.AuthorID, br.Review.FicID,
		br.Review.PostedDate, br.Review.WordCount, br.Review.Chapters,
		br.Theme, br.Score.String(), br.Approved, br.HeatBonus.String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateReview
		}
		return err
	}
	for _, link := range links {
		linkQuery := `
			INSERT INTO chapter_links (blitz_id, post_id, chapter_id) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`
		if _, err := tx.Exec(ctx, linkQuery, link.BlitzID, link.ReviewPostID, link.Chapter.ID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PGStore) UpdateBlitzReview(ctx context.Context, br model.BlitzReview) error {
	query := `
		UPDATE blitz_reviews
		SET theme = $3, score = $4, approved = $5, heat_bonus = $6
		WHERE blitz_id = $1 AND post_id = $2
	`
	tag, err := s.db.Exec(ctx, query,
		br.BlitzID, br.Review.PostID, br.Theme, br.Score.String(), br.Approved, br.HeatBonus.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) DeleteBlitzReview(ctx context.Context, blitzID string, postID int64) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM blitz_reviews WHERE blitz_id = $1 AND post_id = $2`, blitzID, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const reviewColumns = `
	blitz_id, post_id, author_id, fic_id, posted_date,
	word_count, chapters, theme, score::text, approved, heat_bonus::text
`

func (s *PGStore) BlitzReview(ctx context.Context, blitzID string, postID int64) (model.BlitzReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM blitz_reviews WHERE blitz_id = $1 AND post_id = $2`
	return scanReview(s.db.QueryRow(ctx, query, blitzID, postID))
}

func (s *PGStore) BlitzReviews(ctx context.Context, blitzID string) ([]model.BlitzReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM blitz_reviews WHERE blitz_id = $1 ORDER BY posted_date, post_id`
	return s.queryReviews(ctx, query, blitzID)
}

func (s *PGStore) PendingReviews(ctx context.Context, blitzID string) ([]model.BlitzReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM blitz_reviews WHERE blitz_id = $1 AND NOT approved ORDER BY posted_date, post_id`
	return s.queryReviews(ctx, query, blitzID)
}

func (s *PGStore) ReviewsByAuthor(ctx context.Context, blitzID string, authorID int64) ([]model.BlitzReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM blitz_reviews WHERE blitz_id = $1 AND author_id = $2 ORDER BY posted_date, post_id`
	return s.queryReviews(ctx, query, blitzID, authorID)
}

func (s *PGStore) ReviewsByAuthorAndFic(ctx context.Context, blitzID string, authorID, ficID int64) ([]model.BlitzReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM blitz_reviews WHERE blitz_id = $1 AND author_id = $2 AND fic_id = $3 ORDER BY posted_date, post_id`
	return s.queryReviews(ctx, query, blitzID, authorID, ficID)
}

func (s *PGStore) ReviewSubmitted(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM blitz_reviews WHERE post_id = $1)`, postID).Scan(&exists)
	return exists, err
}

func (s *PGStore) ChapterLinks(ctx context.Context, blitzID string, postID int64) ([]model.ReviewChapterLink, error) {
	query := `
		SELECT cl.blitz_id, cl.post_id, c.id, c.fic_id, c.number, c.word_count
		FROM chapter_links cl JOIN chapters c ON c.id = cl.chapter_id
		WHERE cl.blitz_id = $1 AND cl.post_id = $2
		ORDER BY c.number
	`
	rows, err := s.db.Query(ctx, query, blitzID, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ReviewChapterLink
	for rows.Next() {
		var link model.ReviewChapterLink
		if err := rows.Scan(&link.BlitzID, &link.ReviewPostID,
			&link.Chapter.ID, &link.Chapter.FicID, &link.Chapter.Number, &link.Chapter.WordCount); err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, rows.Err()
}

func (s *PGStore) EnsureBlitzUser(ctx context.Context, blitzID string, memberID int64) (model.BlitzUser, error) {
	query := `
		INSERT INTO blitz_users (blitz_id, member_id) VALUES ($1, $2)
		ON CONFLICT (blitz_id, member_id) DO NOTHING
	`
	if _, err := s.db.Exec(ctx, query, blitzID, memberID); err != nil {
		return model.BlitzUser{}, err
	}
	return s.blitzUser(ctx, blitzID, memberID)
}

func (s *PGStore) SaveBlitzUser(ctx context.Context, u model.BlitzUser) error {
	query := `
		INSERT INTO blitz_users (blitz_id, member_id, bonus_points, points_spent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (blitz_id, member_id) DO UPDATE
		SET bonus_points = EXCLUDED.bonus_points, points_spent = EXCLUDED.points_spent
	`
	_, err := s.db.Exec(ctx, query, u.BlitzID, u.MemberID, u.BonusPoints.String(), u.PointsSpent.String())
	return err
}

func (s *PGStore) BlitzUsers(ctx context.Context, blitzID string) (map[int64]model.BlitzUser, error) {
	query := `SELECT blitz_id, member_id, bonus_points::text, points_spent::text FROM blitz_users WHERE blitz_id = $1`
	rows, err := s.db.Query(ctx, query, blitzID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.BlitzUser)
	for rows.Next() {
		u, err := scanBlitzUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.MemberID] = u
	}
	return out, rows.Err()
}

func (s *PGStore) blitzUser(ctx context.Context, blitzID string, memberID int64) (model.BlitzUser, error) {
	query := `SELECT blitz_id, member_id, bonus_points::text, points_spent::text FROM blitz_users WHERE blitz_id = $1 AND member_id = $2`
	u, err := scanBlitzUser(s.db.QueryRow(ctx, query, blitzID, memberID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BlitzUser{}, ErrNotFound
	}
	return u, err
}

func (s *PGStore) queryReviews(ctx context.Context, query string, args ...any) ([]model.BlitzReview, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.BlitzReview
	for rows.Next() {
		br, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

func scanReview(row pgx.Row) (model.BlitzReview, error) {
	var (
		br               model.BlitzReview
		score, heatBonus string
	)
	err := row.Scan(
		&br.BlitzID, &br.Review.PostID, &br.Review.AuthorID, &br.Review.FicID,
		&br.Review.PostedDate, &br.Review.WordCount, &br.Review.Chapters,
		&br.Theme, &score, &br.Approved, &heatBonus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BlitzReview{}, ErrNotFound
		}
		return model.BlitzReview{}, err
	}
	if br.Score, err = decimal.NewFromString(score); err != nil {
		return model.BlitzReview{}, fmt.Errorf("parse score: %w", err)
	}
	if br.HeatBonus, err = decimal.NewFromString(heatBonus); err != nil {
		return model.BlitzReview{}, fmt.Errorf("parse heat bonus: %w", err)
	}
	return br, nil
}

func scanBlitzUser(row pgx.Row) (model.BlitzUser, error) {
	var (
		u                  model.BlitzUser
		bonusPoints, spent string
	)
	if err := row.Scan(&u.BlitzID, &u.MemberID, &bonusPoints, &spent); err != nil {
		return model.BlitzUser{}, err
	}
	var err error
	if u.BonusPoints, err = decimal.NewFromString(bonusPoints); err != nil {
		return model.BlitzUser{}, fmt.Errorf("parse bonus points: %w", err)
	}
	if u.PointsSpent, err = decimal.NewFromString(spent); err != nil {
		return model.BlitzUser{}, fmt.Errorf("parse points spent: %w", err)
	}
	return u, nil
}
