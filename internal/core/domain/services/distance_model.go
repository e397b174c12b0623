package services

import (
	"encoding/binary"
	"math"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"

	"github.com/zeebo/xxh3"
)

const (
	MinLegKm    = 0.35
	LegOffsetKm = 0.2

	TrafficFactorMin = 0.85
	// trafficSpan is the width of the traffic factor range in 1e-4 steps,
	// giving factors in [0.85, 1.19).
	trafficSpan = 3400

	// coordinateQuantum is the number of buckets per degree used when hashing
	// coordinates for the traffic factor.
	coordinateQuantum = 1e4

	BaseSpeedKmh      = 24.0
	SpeedDecayPerStop = 0.8
	MinSpeedKmh       = 14.0
	evenStopJitter    = 1.04
	oddStopJitter     = 0.97
)

// DistanceModel is the deterministic stand-in for a road network.
type DistanceModel struct{}

func NewDistanceModel() DistanceModel {
	return DistanceModel{}
}

// Distance returns the leg length in km, rounded to 0.01:
// max(grid distance × traffic factor, MinLegKm) + LegOffsetKm.
func (m DistanceModel) Distance(from, to kernel.Location) float64 {
	km := math.Max(from.PlanarKm(to)*m.TrafficFactor(from, to), MinLegKm) + LegOffsetKm
	return roundTo(km, 100)
}

// TrafficFactor hashes the quantized coordinate pair with xxh3. The pair is
// sorted first, so the factor does not depend on travel direction.
func (m DistanceModel) TrafficFactor(a, b kernel.Location) float64 {
	pa := [2]int64{quantize(a.Lat()), quantize(a.Lng())}
	pb := [2]int64{quantize(b.Lat()), quantize(b.Lng())}
	if pb[0] < pa[0] || (pb[0] == pa[0] && pb[1] < pa[1]) {
		pa, pb = pb, pa
	}

	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(pa[0]))
	binary.LittleEndian.PutUint64(buf[8:], uint64(pa[1]))
	binary.LittleEndian.PutUint64(buf[16:], uint64(pb[0]))
	binary.LittleEndian.PutUint64(buf[24:], uint64(pb[1]))

	return TrafficFactorMin + float64(xxh3.Hash(buf[:])%trafficSpan)/coordinateQuantum
}

// TravelMinutes converts a leg into minutes for the stop at the zero-based
// index in the visiting order. Speed drops with every stop down to
// MinSpeedKmh; even and odd stops get a slightly different jitter.
func (m DistanceModel) TravelMinutes(distanceKm float64, index int) int {
	speed := math.Max(MinSpeedKmh, BaseSpeedKmh-SpeedDecayPerStop*float64(index))
	jitter := evenStopJitter
	if index%2 == 1 {
		jitter = oddStopJitter
	}

	minutes := int(math.Round(distanceKm / speed * 60 * jitter))
	return max(1, minutes)
}

// DwellMinutes is the time spent at a stop: the earlier the order is in its
// lifecycle, the longer the courier waits.
func DwellMinutes(status route.Status) int {
	switch status {
	case route.Assigned:
		return 8
	case route.Cooking:
		return 6
	case route.Delivery:
		return 2
	default:
		return 0
	}
}

func quantize(deg float64) int64 {
	return int64(math.Round(deg * coordinateQuantum))
}

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
