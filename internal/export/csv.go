package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/mkovtun/habitquest/internal/game"
)

// CheckinsToCSV writes the check-in history, oldest date first.
func CheckinsToCSV(st *game.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"Date", "P", "M", "O", "Urge",
		"Water First", "First Dose Delay (min)", "Doses", "First Dose", "Last Dose", "Dose Type",
		"Pushups", "Squats", "Abs", "Locked", "Updated At",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	dates := make([]string, 0, len(st.Checkins))
	for d := range st.Checkins {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		c := st.Checkins[d]
		row := []string{
			c.Date,
			strconv.FormatBool(c.P),
			strconv.FormatBool(c.M),
			strconv.FormatBool(c.O),
			strconv.Itoa(c.Urge),
			strconv.FormatBool(c.WaterFirst),
			strconv.Itoa(c.FirstDoseDelayMin),
			strconv.FormatFloat(c.CaffDoses, 'f', -1, 64),
			c.CaffFirstTime,
			c.CaffLastTime,
			c.CaffType,
			strconv.Itoa(c.Pushups),
			strconv.Itoa(c.Squats),
			strconv.Itoa(c.Abs),
			strconv.FormatBool(c.Locked),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
