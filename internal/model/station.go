package model

import "github.com/trashure/trashure-backend/internal/store"

// GeoPoint is a latitude/longitude pair locating a trash station.
type GeoPoint struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// OpenHours describes the daily opening window of a station.
type OpenHours struct {
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// TrashStation is a registered drop-off point.  Capacity is a fill
// percentage in [0,100]; a station at 100 is forced unavailable when
// created or updated (the invariant is enforced on write, not
// re-derived on read).  The transaction list is append-only.
type TrashStation struct {
	ID          string      `json:"id"`
	Location    GeoPoint    `json:"location"`
	Available   bool        `json:"available"`
	Address     string      `json:"address"`
	Capacity    int         `json:"capacity"`
	OpenHours   OpenHours   `json:"openHours"`
	Transaction []store.Ref `json:"transaction"`
}
