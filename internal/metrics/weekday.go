package metrics

import (
	"sort"
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/series"
)

type WeekdayScore struct {
	Weekday string  `json:"weekday"`
	Mean    float64 `json:"mean"`
	Count   int     `json:"count"`
}

type WeekdayRanking struct {
	Available bool           `json:"available"`
	Top       string         `json:"top,omitempty"`
	Ranking   []WeekdayScore `json:"ranking"`
	Note      string         `json:"note,omitempty"`
}

// RankWeekdays promedia la puntuación por día de la semana y ordena de mayor a menor.
func RankWeekdays(obs []series.Observation) WeekdayRanking {
	var sum [7]float64
	var cnt [7]int
	for _, o := range obs {
		if o.Time.IsZero() {
			continue
		}
		wd := o.Time.Weekday()
		sum[wd] += o.Value
		cnt[wd]++
	}
	out := WeekdayRanking{Ranking: []WeekdayScore{}}
	// lunes primero para desempates estables
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		if cnt[wd] == 0 {
			continue
		}
		out.Ranking = append(out.Ranking, WeekdayScore{Weekday: wd.String(), Mean: round2(sum[wd] / float64(cnt[wd])), Count: cnt[wd]})
	}
	if len(out.Ranking) == 0 {
		out.Note = noteInsufficient
		return out
	}
	sort.SliceStable(out.Ranking, func(i, j int) bool { return out.Ranking[i].Mean > out.Ranking[j].Mean })
	out.Available = true
	out.Top = out.Ranking[0].Weekday
	return out
}
