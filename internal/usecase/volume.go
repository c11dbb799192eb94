package usecase

import (
	"math/rand"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/devdash/internal/domain"
)

// VolumeDays is the number of daily points in the volume chart.
const VolumeDays = 30

// VolumeSeries returns placeholder daily PR volume for the VolumeDays days ending at now,
// oldest first. Values come from rng and carry no relation to the records.
func VolumeSeries(now time.Time, rng *rand.Rand) []domain.VolumePoint {
	points := make([]domain.VolumePoint, 0, VolumeDays)
	for i := VolumeDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		p := domain.VolumePoint{
			Date:   date.Format("2006-01-02"),
			Opened: rng.Intn(8) + 2,
			Merged: rng.Intn(6) + 1,
			Closed: rng.Intn(3) + 1,
		}
		p.AvgCycleTime, _ = stats.Round(rng.Float64()*4+1, 1)
		p.ReviewTime, _ = stats.Round(rng.Float64()*3+0.5, 1)
		points = append(points, p)
	}
	return points
}
