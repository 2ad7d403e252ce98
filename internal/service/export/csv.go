package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

var csvHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume", "Predicted"}

// WriteCSV renders an annotated series as CSV, one row per day in input
// order. Days without a prediction get "N/A" in the Predicted column.
func WriteCSV(w io.Writer, series []models.AnnotatedPricePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range series {
		predicted := "N/A"
		if p.PredictedClose != nil {
			predicted = strconv.FormatFloat(*p.PredictedClose, 'f', 2, 64)
		}
		row := []string{
			p.Date,
			strconv.FormatFloat(p.Open, 'f', 2, 64),
			strconv.FormatFloat(p.High, 'f', 2, 64),
			strconv.FormatFloat(p.Low, 'f', 2, 64),
			strconv.FormatFloat(p.Close, 'f', 2, 64),
			strconv.FormatInt(p.Volume, 10),
			predicted,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename builds the download name for a symbol's export.
func Filename(symbol string, now time.Time) string {
	return fmt.Sprintf("%s_stock_data_%s.csv", symbol, util.FormatDay(now))
}
