// Package data loads the CSV inputs a replayed simulation runs from:
// per-participant energy profiles and hourly grid prices.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/udislau/ppe-agents/internal/model"
	"github.com/udislau/ppe-agents/internal/sim"
)

// ProfileRow is one hour of a participant's recorded production and
// consumption, kWh.
type ProfileRow struct {
	Hour        string
	Production  float64
	Consumption float64
}

// LoadProfiles reads every *.csv in dir as one participant profile. The file
// base name (without extension) is the participant id. Expected columns:
// hour, production, consumption (header required, extra columns ignored).
func LoadProfiles(dir string) (map[string][]ProfileRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	profiles := map[string][]ProfileRow{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".csv")
		rows, err := loadProfileFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", id, err)
		}
		profiles[id] = rows
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile CSVs in %s", dir)
	}
	return profiles, nil
}

func loadProfileFile(path string) ([]ProfileRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}
	cols, err := columnIndex(records[0], "hour", "production", "consumption")
	if err != nil {
		return nil, err
	}

	rows := make([]ProfileRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		prod, err := parseDecimal(rec[cols["production"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: production: %w", i+2, err)
		}
		cons, err := parseDecimal(rec[cols["consumption"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: consumption: %w", i+2, err)
		}
		rows = append(rows, ProfileRow{
			Hour:        rec[cols["hour"]],
			Production:  prod,
			Consumption: cons,
		})
	}
	return rows, nil
}

// BuildStepInputs turns loaded profiles and grid costs into the engine's
// input stream. The stream length is the shortest profile; grid costs repeat
// cyclically when shorter than the profiles, matching the source data where
// costs cover one day. Participant order is sorted by id for determinism.
func BuildStepInputs(profiles map[string][]ProfileRow, costs []model.GridPrice) ([]sim.StepInput, error) {
	if len(costs) == 0 {
		return nil, fmt.Errorf("no grid costs")
	}
	ids := make([]string, 0, len(profiles))
	steps := -1
	for id, rows := range profiles {
		ids = append(ids, id)
		if steps < 0 || len(rows) < steps {
			steps = len(rows)
		}
	}
	sort.Strings(ids)

	inputs := make([]sim.StepInput, 0, steps)
	for step := 0; step < steps; step++ {
		in := sim.StepInput{Grid: costs[step%len(costs)]}
		for _, id := range ids {
			row := profiles[id][step]
			if in.Label == "" {
				in.Label = row.Hour
			}
			in.Forecasts = append(in.Forecasts, model.Forecast{
				ParticipantID: id,
				Production:    row.Production,
				Consumption:   row.Consumption,
			})
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func columnIndex(header []string, names ...string) (map[string]int, error) {
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range names {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

// parseDecimal accepts both dot and comma decimal separators; the source
// price/profile exports use comma.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return strconv.ParseFloat(s, 64)
}
