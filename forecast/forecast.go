package forecast

import (
	"math"
	"time"
)

// Days is the number of daily summaries produced by Aggregate.
const Days = 5

type Sample struct {
	Timestamp   int64
	Temperature float64
	Humidity    int
	Icon        string
}

// DailySummary describes one location-local calendar day. When no samples
// fall on that day Available is false and the numeric fields are zero.
type DailySummary struct {
	Date        time.Time
	MinTemp     float64
	MaxTemp     float64
	AvgHumidity float64
	Icon        string
	Samples     int
	Available   bool
}

func (d DailySummary) DateLabel() string {
	return d.Date.Format("02/01/2006")
}

func (d DailySummary) RoundedMin() int {
	return int(math.Round(d.MinTemp))
}

func (d DailySummary) RoundedMax() int {
	return int(math.Round(d.MaxTemp))
}

func (d DailySummary) RoundedHumidity() int {
	return int(math.Round(d.AvgHumidity))
}

// Aggregate groups 3-hour samples into the Days calendar days following
// "today" at the forecast location.
func Aggregate(samples []Sample, offsetSeconds int, now time.Time) []DailySummary {
	offset := int64(offsetSeconds)
	today := localDate(now.Unix() + offset)

	buckets := make([][]Sample, Days)
	for _, sample := range samples {
		day := localDate(sample.Timestamp + offset)
		for i := range buckets {
			if day.Equal(today.AddDate(0, 0, i+1)) {
				buckets[i] = append(buckets[i], sample)
				break
			}
		}
	}

	result := make([]DailySummary, 0, Days)
	for i, bucket := range buckets {
		result = append(result, summarize(today.AddDate(0, 0, i+1), bucket))
	}

	return result
}

func summarize(date time.Time, bucket []Sample) DailySummary {
	summary := DailySummary{Date: date, Samples: len(bucket)}
	if len(bucket) == 0 {
		return summary
	}

	summary.MinTemp = bucket[0].Temperature
	summary.MaxTemp = bucket[0].Temperature

	var humidity int
	for _, sample := range bucket {
		summary.MinTemp = math.Min(summary.MinTemp, sample.Temperature)
		summary.MaxTemp = math.Max(summary.MaxTemp, sample.Temperature)
		humidity += sample.Humidity
	}

	summary.AvgHumidity = float64(humidity) / float64(len(bucket))
	// middle of the day for 3-hour cadence
	summary.Icon = bucket[len(bucket)/2].Icon
	summary.Available = true

	return summary
}

func localDate(ts int64) time.Time {
	year, month, day := time.Unix(ts, 0).UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
