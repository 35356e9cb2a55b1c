package scorecard

import "testing"

func TestRules_Score(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()

	cases := []struct {
		name string
		perf PlayerPerformance
		want float64
	}{
		{name: "empty performance", perf: PlayerPerformance{PlayerName: "benched"}, want: 0},
		{name: "runs only", perf: PlayerPerformance{PlayerName: "gill", Runs: 42}, want: 42},
		{name: "half century bonus", perf: PlayerPerformance{PlayerName: "dhoni", Runs: 50}, want: 58},
		{name: "century bonus replaces half century", perf: PlayerPerformance{PlayerName: "kohli", Runs: 100}, want: 116},
		{name: "bowling figures", perf: PlayerPerformance{PlayerName: "bumrah", Wickets: 3, Maidens: 2}, want: 99},
		{name: "fielding figures", perf: PlayerPerformance{PlayerName: "jadeja", Catches: 2, Stumpings: 1}, want: 28},
		{
			name: "all round performance",
			perf: PlayerPerformance{PlayerName: "stokes", Runs: 61, Wickets: 2, Catches: 1, Maidens: 1},
			want: 61 + 8 + 50 + 8 + 12,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rules.Score(tc.perf); got != tc.want {
				t.Fatalf("unexpected score: got=%v want=%v", got, tc.want)
			}
		})
	}
}
