package cmd

import (
	"context"
	"os"

	"github.com/etnz/fundperf"
	"github.com/etnz/fundperf/date"
	"github.com/etnz/fundperf/docs"
	"github.com/etnz/fundperf/store"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the fp command line for shell completion.
func Completion() *complete.Command {
	var periods predict.Set
	for _, p := range date.Periods {
		periods = append(periods, p.String())
	}
	topics, _ := docs.GetAllTopics()
	funds := complete.PredictFunc(predictFunds)
	when := predict.Set{"now"}

	trade := &complete.Command{Flags: map[string]complete.Predictor{
		"i":         funds,
		"t":         when,
		"effective": predict.Something,
		"value":     predict.Something,
		"cost":      predict.Something,
		"price":     predict.Something,
		"quantity":  predict.Something,
	}}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"db":     predict.Files("*.db"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"import-feed":   {Flags: map[string]complete.Predictor{"i": funds, "cache": predict.Dirs("*")}, Args: predict.Files("*.json")},
			"import-prices": {Flags: map[string]complete.Predictor{"i": funds}, Args: predict.Files("*.jsonl")},
			"import-trades": {Args: predict.Files("*.jsonl")},
			"buy":           trade,
			"sell":          trade,
			"trades":        {Flags: map[string]complete.Predictor{"i": funds}},
			"stats": {Flags: map[string]complete.Predictor{
				"i":       funds,
				"periods": predict.Nothing,
				"daily":   predict.Nothing,
			}},
			"portfolio": {Flags: map[string]complete.Predictor{"period": periods}, Args: funds},
			"export": {Flags: map[string]complete.Predictor{
				"i":    funds,
				"what": predict.Set{"stats", "prices", "trades"},
				"o":    predict.Files("*.jsonl"),
			}},
			"effective":       {Flags: map[string]complete.Predictor{"t": when}},
			"next-trade-date": {Flags: map[string]complete.Predictor{"d": predict.Something, "prev": predict.Nothing}},
			"topic":           {Args: predict.Set(topics)},
		},
	}
}

// predictFunds lists the traded funds of the default database, if there is one.
func predictFunds(prefix string) []string {
	path := os.Getenv(fundperf.EnvDB)
	if path == "" {
		path = fundperf.DefaultConfig().Storage.Path
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	s, err := store.Open(path)
	if err != nil {
		return nil
	}
	defer s.Close()
	ids, _ := s.Instruments(context.Background())
	return ids
}
