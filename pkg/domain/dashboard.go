package domain

// FileRecord is one processed-file entry from the dashboard listing.
// Records are mirrored verbatim from the API; the client derives nothing
// from them beyond display formatting. Timestamp stays a string because the
// server emits ISO-8601 with and without a zone depending on version.
type FileRecord struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"file_size"`
	Method    string `json:"method"`
	Timestamp string `json:"timestamp"`
}

// DashboardData is the account overview returned by GET /dashboard.
type DashboardData struct {
	Email string       `json:"email"`
	Tier  Tier         `json:"tier"`
	Files []FileRecord `json:"files"`
}

// LicenseKey is the response from GET /dashboard/key.
type LicenseKey struct {
	Key string `json:"license_key"`
}
