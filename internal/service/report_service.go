package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"flytau/internal/model"
	"flytau/internal/repository"
)

type ReportService interface {
	LoadFactor(ctx context.Context) ([]*model.LoadFactorRow, error)
	Revenue(ctx context.Context) ([]*model.RevenueRow, error)
	EmployeeHours(ctx context.Context) ([]*model.EmployeeHoursRow, error)
	CancellationRate(ctx context.Context) ([]*model.CancellationRateRow, error)
	AircraftMonthly(ctx context.Context) ([]*model.AircraftMonthlyRow, error)
}

type ReportServiceImpl struct {
	repository repository.ReportRepository
}

func NewReportService(reportRepository repository.ReportRepository) ReportService {
	return &ReportServiceImpl{repository: reportRepository}
}

func (s *ReportServiceImpl) LoadFactor(ctx context.Context) ([]*model.LoadFactorRow, error) {
	return s.repository.LoadFactor(ctx)
}

func (s *ReportServiceImpl) Revenue(ctx context.Context) ([]*model.RevenueRow, error) {
	return s.repository.Revenue(ctx)
}

func (s *ReportServiceImpl) EmployeeHours(ctx context.Context) ([]*model.EmployeeHoursRow, error) {
	return s.repository.EmployeeHours(ctx)
}

func (s *ReportServiceImpl) CancellationRate(ctx context.Context) ([]*model.CancellationRateRow, error) {
	return s.repository.CancellationRate(ctx)
}

func (s *ReportServiceImpl) AircraftMonthly(ctx context.Context) ([]*model.AircraftMonthlyRow, error) {
	rows, err := s.repository.FlightActivity(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateAircraftMonthly(rows), nil
}

type aircraftMonthKey struct {
	aircraftID int
	month      string
}

type routeKey struct {
	origin      string
	destination string
}

// AggregateAircraftMonthly 把逐航班的活動列彙總成 (機體, 月份) 報表。
// 利用率 = 當月有非取消航班起飛或降落的不同日數 / 30 * 100，
// 降落日以 起飛時間 + 航線分鐘數 推得。
// 主力航線取完成次數最高者，同率全列並按 (起點, 終點) 排序。
func AggregateAircraftMonthly(rows []*model.FlightActivityRow) []*model.AircraftMonthlyRow {
	type bucket struct {
		row        *model.AircraftMonthlyRow
		activeDays map[string]bool
		routeCount map[routeKey]int
	}

	buckets := make(map[aircraftMonthKey]*bucket)
	for _, r := range rows {
		key := aircraftMonthKey{
			aircraftID: r.AircraftID,
			month:      r.DepartureAt.UTC().Format("2006-01"),
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				row: &model.AircraftMonthlyRow{
					AircraftID:     r.AircraftID,
					Manufacturer:   r.Manufacturer,
					Model:          r.Model,
					Month:          key.month,
					DominantRoutes: []string{},
				},
				activeDays: make(map[string]bool),
				routeCount: make(map[routeKey]int),
			}
			buckets[key] = b
		}

		b.row.TotalFlights++
		switch r.Status {
		case model.FlightStatusCancelled:
			b.row.FlightsCancelled++
		default:
			departure := r.DepartureAt.UTC()
			arrival := departure.Add(time.Duration(r.DurationMinutes) * time.Minute)
			b.activeDays[departure.Format("2006-01-02")] = true
			b.activeDays[arrival.Format("2006-01-02")] = true
			if r.Status == model.FlightStatusCompleted {
				b.row.FlightsCompleted++
				b.routeCount[routeKey{r.Origin, r.Destination}]++
			}
		}
	}

	result := make([]*model.AircraftMonthlyRow, 0, len(buckets))
	for _, b := range buckets {
		b.row.UtilizationPercent = math.Round(float64(len(b.activeDays))/30.0*100*100) / 100

		maxCount := 0
		for _, n := range b.routeCount {
			if n > maxCount {
				maxCount = n
			}
		}
		dominant := make([]routeKey, 0, len(b.routeCount))
		for route, n := range b.routeCount {
			if n == maxCount {
				dominant = append(dominant, route)
			}
		}
		sort.Slice(dominant, func(i, j int) bool {
			if dominant[i].origin != dominant[j].origin {
				return dominant[i].origin < dominant[j].origin
			}
			return dominant[i].destination < dominant[j].destination
		})
		for _, route := range dominant {
			b.row.DominantRoutes = append(b.row.DominantRoutes, fmt.Sprintf("%s→%s", route.origin, route.destination))
		}

		result = append(result, b.row)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AircraftID != result[j].AircraftID {
			return result[i].AircraftID < result[j].AircraftID
		}
		return result[i].Month < result[j].Month
	})
	return result
}
