package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"
)

// Generate builds a synthetic churn dataset of n customers. The churn label
// is drawn from a factor-driven probability: month-to-month contracts, high
// charges, low satisfaction, fiber internet and electronic-check payment all
// push it up; probabilities are min-max normalized and halved to land at a
// realistic churn rate. The same seed always produces the same table.
func Generate(n int, seed int64) *Table {
	rng := rand.New(rand.NewSource(seed))
	customers := make([]*Customer, n)

	choose := func(values []string, weights []float64) string {
		r := rng.Float64()
		acc := 0.0
		for i, w := range weights {
			acc += w
			if r < acc {
				return values[i]
			}
		}
		return values[len(values)-1]
	}

	for i := range customers {
		tenure := math.Min(math.Floor(rng.ExpFloat64()*30), 72)
		monthly := round2(clamp(rng.NormFloat64()*30+70, 20, 150))
		total := round2(math.Max(monthly*tenure*(rng.NormFloat64()*0.02+0.98), 0))
		c := &Customer{
			ID:             strconv.Itoa(i + 1),
			Gender:         choose([]string{"Male", "Female"}, []float64{0.5, 0.5}),
			Age:            clampInt(int(rng.NormFloat64()*15+42), 18, 85),
			Tenure:         tenure,
			ContractType:   choose([]string{"Month-to-Month", "One Year", "Two Year"}, []float64{0.5, 0.3, 0.2}),
			MonthlyCharges: monthly,
			TotalCharges:   total,
			InternetService: choose(
				[]string{"DSL", "Fiber Optic", "No"}, []float64{0.4, 0.4, 0.2}),
			PhoneService:      choose([]string{"Yes", "No"}, []float64{0.9, 0.1}),
			StreamingTV:       choose([]string{"Yes", "No"}, []float64{0.7, 0.3}),
			StreamingMovies:   choose([]string{"Yes", "No"}, []float64{0.7, 0.3}),
			PaymentMethod:     choose([]string{"Electronic Check", "Mailed Check", "Bank Transfer", "Credit Card"}, []float64{0.25, 0.25, 0.25, 0.25}),
			SatisfactionScore: math.Round(clamp(rng.NormFloat64()+3.5, 1, 5)*10) / 10,
		}
		customers[i] = c
	}

	probs := make([]float64, n)
	minP, maxP := math.Inf(1), math.Inf(-1)
	for i, c := range customers {
		p := 0.0
		if c.ContractType == "Month-to-Month" {
			p += 0.2
		}
		if c.MonthlyCharges > 100 {
			p += 0.1
		}
		if c.SatisfactionScore < 3 {
			p += 0.3
		}
		if c.InternetService == "Fiber Optic" {
			p += 0.1
		}
		if c.PaymentMethod == "Electronic Check" {
			p += 0.1
		}
		probs[i] = p
		minP = math.Min(minP, p)
		maxP = math.Max(maxP, p)
	}
	span := maxP - minP
	for i, c := range customers {
		p := 0.0
		if span > 0 {
			p = (probs[i] - minP) / span * 0.5
		}
		if rng.Float64() < p {
			c.Churn = 1
		}
	}

	end := time.Now().Truncate(24 * time.Hour)
	perm := rng.Perm(n)
	for i, c := range customers {
		c.LastUpdate = end.AddDate(0, 0, -perm[i])
	}

	t, _ := NewTable(customers) // generated ids are sequential, never duplicated
	return t
}

var csvHeader = []string{
	"CustomerID", "Gender", "Age", "Tenure", "ContractType",
	"MonthlyCharges", "TotalCharges", "InternetService", "PhoneService",
	"StreamingTV", "StreamingMovies", "PaymentMethod", "SatisfactionScore", "Churn",
}

// WriteCSV writes the table in the seeder's column layout. The file is
// written to a temp path and renamed so a failed write never leaves a
// truncated file behind.
func WriteCSV(t *Table, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range t.Customers {
		rec := []string{
			c.ID, c.Gender, strconv.Itoa(c.Age),
			strconv.FormatFloat(c.Tenure, 'f', -1, 64),
			c.ContractType,
			strconv.FormatFloat(c.MonthlyCharges, 'f', 2, 64),
			strconv.FormatFloat(c.TotalCharges, 'f', 2, 64),
			c.InternetService, c.PhoneService, c.StreamingTV,
			c.StreamingMovies, c.PaymentMethod,
			strconv.FormatFloat(c.SatisfactionScore, 'f', 1, 64),
			strconv.Itoa(c.Churn),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename csv: %w", err)
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
