// Package recommend scores behavioral similarity between players and
// suggests games a player has not tried yet.
package recommend

import (
	"sort"
	"time"

	"github.com/hikarukin/gametrack/internal/analytics"
)

const (
	// DefaultWindowDays is the lookback for similarity and recommendations.
	DefaultWindowDays = 30

	// MaxResults caps both the similar-user and recommendation lists.
	MaxResults = 5
)

// SimilarUser is one ranked match for a requesting user.
type SimilarUser struct {
	UserID      string
	UserName    string
	Score       float64
	CommonGames []string
}

// Recommendation is one suggested game with its popularity figures.
type Recommendation struct {
	GameName string
	// PlayerCount is how many distinct users played the game in the window.
	PlayerCount int64
	// Share is PlayerCount over the total players across all candidate
	// recommendations, in [0,1].
	Share float64
	// AvgHoursPerPlayer is total playtime split evenly across players.
	AvgHoursPerPlayer float64
}

// Recommender derives similarity scores and recommendations from the
// analytics aggregates.
type Recommender struct {
	engine *analytics.Engine
}

// New returns a recommender reading through engine.
func New(engine *analytics.Engine) *Recommender {
	return &Recommender{engine: engine}
}

// SimilarUsers ranks every other user seen in the window by a four-part
// score weighted 0.25 each: shared-game ratio, per-game time closeness,
// schedule overlap, and library-breadth closeness. Only users sharing at
// least one game are considered. An empty result means the requester has
// no history or no overlap with anyone; it is not an error.
//
// The score is asymmetric: the shared-game ratio is normalized by the
// requester's game count, so SimilarUsers(a) and SimilarUsers(b) can rank
// the same pair differently.
func (r *Recommender) SimilarUsers(userID string, days int) ([]SimilarUser, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}

	userGames, err := r.engine.UserGameTotals(userID, days)
	if err != nil {
		return nil, err
	}
	if len(userGames) == 0 {
		return nil, nil
	}

	userSchedule, err := r.engine.HourHistogram(userID, days)
	if err != nil {
		return nil, err
	}

	others, err := r.engine.ActiveUsers(days)
	if err != nil {
		return nil, err
	}

	var matches []SimilarUser
	for _, otherID := range others {
		if otherID == userID {
			continue
		}

		otherGames, err := r.engine.UserGameTotals(otherID, days)
		if err != nil {
			return nil, err
		}

		common := commonGames(userGames, otherGames)
		if len(common) == 0 {
			continue
		}

		otherSchedule, err := r.engine.HourHistogram(otherID, days)
		if err != nil {
			return nil, err
		}

		score := 0.25*gameRatio(common, userGames) +
			0.25*timeSimilarity(common, userGames, otherGames) +
			0.25*scheduleSimilarity(userSchedule, otherSchedule) +
			0.25*breadthSimilarity(len(userGames), len(otherGames))

		name, err := r.engine.UserName(otherID)
		if err != nil {
			return nil, err
		}

		matches = append(matches, SimilarUser{
			UserID:      otherID,
			UserName:    name,
			Score:       score,
			CommonGames: common,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches, nil
}

// Recommend suggests games other users played in the window that the
// requester has not, ranked by player count then total playtime. Empty
// when the requester has no window history or every game is already in
// their set.
func (r *Recommender) Recommend(userID string, days int) ([]Recommendation, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}

	userGames, err := r.engine.UserGameTotals(userID, days)
	if err != nil {
		return nil, err
	}
	if len(userGames) == 0 {
		return nil, nil
	}

	popularity, err := r.engine.GamePopularity(days)
	if err != nil {
		return nil, err
	}

	var totalPlayers int64
	var candidates []Recommendation
	var totals []int64
	for _, row := range popularity {
		if _, played := userGames[row.GameName]; played {
			continue
		}
		totalPlayers += row.PlayerCount
		candidates = append(candidates, Recommendation{
			GameName:    row.GameName,
			PlayerCount: row.PlayerCount,
		})
		totals = append(totals, row.TotalSeconds)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Popularity share is normalized over every candidate, not just the
	// returned top slice.
	for i := range candidates {
		if totalPlayers > 0 {
			candidates[i].Share = float64(candidates[i].PlayerCount) / float64(totalPlayers)
		}
		if candidates[i].PlayerCount > 0 {
			perPlayer := float64(totals[i]) / float64(candidates[i].PlayerCount)
			candidates[i].AvgHoursPerPlayer = perPlayer / float64(time.Hour/time.Second)
		}
	}

	if len(candidates) > MaxResults {
		candidates = candidates[:MaxResults]
	}
	return candidates, nil
}

func commonGames(a, b map[string]int64) []string {
	var common []string
	for game := range a {
		if _, ok := b[game]; ok {
			common = append(common, game)
		}
	}
	sort.Strings(common)
	return common
}

func gameRatio(common []string, userGames map[string]int64) float64 {
	if len(userGames) == 0 {
		return 0
	}
	return float64(len(common)) / float64(len(userGames))
}

func timeSimilarity(common []string, userGames, otherGames map[string]int64) float64 {
	if len(common) == 0 {
		return 0
	}
	var sum float64
	for _, game := range common {
		userTime := userGames[game]
		otherTime := otherGames[game]
		max := userTime
		min := otherTime
		if otherTime > userTime {
			max, min = otherTime, userTime
		}
		if max > 0 {
			sum += float64(min) / float64(max)
		}
	}
	return sum / float64(len(common))
}

func scheduleSimilarity(userSchedule, otherSchedule map[int]int) float64 {
	union := make(map[int]struct{})
	for hour := range userSchedule {
		union[hour] = struct{}{}
	}
	for hour := range otherSchedule {
		union[hour] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}

	matches := 0
	for hour := range union {
		if userSchedule[hour] > 0 && otherSchedule[hour] > 0 {
			matches++
		}
	}
	return float64(matches) / float64(len(union))
}

func breadthSimilarity(userCount, otherCount int) float64 {
	max := userCount
	if otherCount > max {
		max = otherCount
	}
	if max == 0 {
		return 0
	}
	diff := userCount - otherCount
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(max)
}
