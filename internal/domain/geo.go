package domain

import "math"

const earthRadiusKm = 6371.0

// DistanceKm is the Haversine great-circle distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Delivers reports whether a customer location falls within the delivery radius.
// A zero radius disables delivery.
func (p LocationProps) Delivers(lat, lon float64) bool {
	if p.DeliveryRadiusKm <= 0 {
		return false
	}
	return DistanceKm(p.Latitude, p.Longitude, lat, lon) <= p.DeliveryRadiusKm
}
