package dto

// BackfillSingleRequest fetches and stores one day's rate. Tier defaults to
// primary_backfill; Store defaults to the configured tenant.
type BackfillSingleRequest struct {
	Date  string `json:"date" binding:"required,dateymd"`
	Tier  string `json:"tier" binding:"omitempty,oneof=primary_daily primary_backfill secondary_backfill"`
	Store string `json:"store"`
}

// BackfillSingleResponse reports the resolved rate and the conversion run
// over the requested day. Cached means the rate was already stored and no
// provider was contacted.
type BackfillSingleResponse struct {
	Success bool           `json:"success"`
	Cached  bool           `json:"cached"`
	Rate    RateResponse   `json:"rate"`
	Apply   *ApplyResponse `json:"apply,omitempty"`
}
