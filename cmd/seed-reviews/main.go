// Command seed-reviews populates a running blitz service with demo data: a
// blitz with weekly themes, a handful of members and fics, and a stream of
// review submissions. Useful for exercising the leaderboard locally.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Default generation constants.
const (
	defaultMembers  = 8
	defaultFics     = 12
	defaultReviews  = 40
	defaultTimeout  = 10 * time.Second
	blitzWeeks      = 4
	maxChaptersSeen = 6
	wordJitter      = 4000
	minReviewWords  = 400
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the service")
		members = flag.Int("members", defaultMembers, "Number of members to create")
		fics    = flag.Int("fics", defaultFics, "Number of fics to create")
		reviews = flag.Int("reviews", defaultReviews, "Number of reviews to submit")
		approve = flag.Bool("approve", true, "Approve every submitted review")
		seed    = flag.Int64("seed", 42, "Random seed")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	ctx := context.Background()
	c := &client{base: *baseURL, http: &http.Client{Timeout: *timeout}}
	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // demo data only

	if err := run(ctx, c, rng, *members, *fics, *reviews, *approve); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client, rng *rand.Rand, members, fics, reviews int, approve bool) error {
	now := time.Now().UTC()
	start := now.Add(-7 * 24 * time.Hour)

	var blitz struct {
		ID string `json:"id"`
	}
	err := c.post(ctx, "/blitzes", map[string]any{
		"title":      "Demo Review Blitz",
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(blitzWeeks * 7 * 24 * time.Hour).Format(time.RFC3339),
		"scoring": map[string]any{
			"name":                         "demo",
			"min_words":                    250,
			"words_per_chapter":            1000,
			"chapter_points":               "1.00",
			"consecutive_chapter_interval": 5,
			"consecutive_chapter_bonus":    "0.50",
			"theme_bonus":                  "0.50",
			"long_chapter_bonus_words":     5000,
			"long_chapter_bonus":           "0.25",
			"heat_bonus_multiplier":        "1.00",
			"heat_bonus_threshold_tier_1":  5,
			"heat_bonus_threshold_tier_2":  20,
			"max_heat_bonus_tier_0":        "0.50",
			"max_heat_bonus_tier_1":        "1.00",
			"max_heat_bonus":               "2.00",
		},
		"themes": []map[string]any{
			{"week": 1, "name": "Fresh Starts", "claimable": "per_review", "consecutive_chapter_bonus_applies": true},
			{"week": 2, "name": "Deep Dive", "claimable": "per_chapter", "consecutive_chapter_bonus_applies": true},
			{"week": 3, "name": "New Fic Friday", "claimable": "per_fic", "consecutive_chapter_bonus_applies": false},
		},
	}, &blitz)
	if err != nil {
		return fmt.Errorf("create blitz: %w", err)
	}

	for i := 1; i <= members; i++ {
		if err := c.post(ctx, "/members", map[string]any{
			"id":       int64(i),
			"username": fmt.Sprintf("member%02d", i),
		}, nil); err != nil {
			return fmt.Errorf("create member %d: %w", i, err)
		}
	}

	chapterID := int64(0)
	for i := 1; i <= fics; i++ {
		author := int64(rng.Intn(members) + 1)
		if err := c.post(ctx, "/fics", map[string]any{
			"id":      int64(i),
			"title":   fmt.Sprintf("Fic #%d", i),
			"authors": []int64{author},
		}, nil); err != nil {
			return fmt.Errorf("create fic %d: %w", i, err)
		}
		for n := 1; n <= rng.Intn(maxChaptersSeen)+1; n++ {
			chapterID++
			if err := c.post(ctx, "/chapters", map[string]any{
				"id":         chapterID,
				"fic_id":     int64(i),
				"number":     n,
				"word_count": 1500 + rng.Intn(wordJitter),
			}, nil); err != nil {
				return fmt.Errorf("create chapter %d: %w", chapterID, err)
			}
		}
	}

	submitted := 0
	for post := int64(1); submitted < reviews; post++ {
		reviewer := int64(rng.Intn(members) + 1)
		fic := int64(rng.Intn(fics) + 1)
		posted := start.Add(time.Duration(rng.Intn(blitzWeeks*7*24)) * time.Hour)
		if posted.After(time.Now().UTC()) {
			posted = time.Now().UTC().Add(-time.Hour)
		}

		body := map[string]any{
			"submitter_id":    reviewer,
			"post_id":         post,
			"author_id":       reviewer,
			"fic_id":          fic,
			"posted_date":     posted.Format(time.RFC3339),
			"word_count":      minReviewWords + rng.Intn(wordJitter),
			"chapters":        rng.Intn(maxChaptersSeen) + 1,
			"satisfies_theme": rng.Intn(2) == 0,
		}
		if err := c.post(ctx, "/reviews", body, nil); err != nil {
			// Rejected submissions still count as exercising the validation
			// path; move on to the next post id.
			continue
		}
		submitted++

		if approve {
			if err := c.post(ctx, "/queue", map[string]any{
				"blitz_id": blitz.ID,
				"post_id":  post,
				"approve":  true,
			}, nil); err != nil {
				return fmt.Errorf("approve post %d: %w", post, err)
			}
		}
	}

	fmt.Printf("seeded %d members, %d fics, %d reviews (blitz %s)\n", members, fics, submitted, blitz.ID)
	return nil
}

// client is a minimal JSON poster against the service API.
type client struct {
	base string
	http *http.Client
}

func (c *client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s returned %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
