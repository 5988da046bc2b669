package models

// Output formats for GET /get_contour/
const (
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
)

// FileQuery represents the query of GET /get/
type FileQuery struct {
	URL string `form:"url" binding:"required,url"`
}

// ContourQuery represents the query of GET /get_contour/
type ContourQuery struct {
	URL          string    `form:"url" binding:"required,url"`
	ContourValue float64   `form:"contour_value"`
	FillValue    float64   `form:"fill_value"`
	Domain       []float64 `form:"domain"`   // lo, hi
	Cols         []string  `form:"cols"`     // x, y, z column names
	NInterp      int       `form:"n_interp"` // 0 means the configured default
	Format       string    `form:"format" binding:"omitempty,oneof=csv geojson"`
	Tolerance    float64   `form:"tolerance" binding:"gte=0"` // Douglas-Peucker, 0 disables
}

// DefaultContourQuery returns the query defaults applied before binding
func DefaultContourQuery() ContourQuery {
	return ContourQuery{
		ContourValue: 0.5,
		FillValue:    0,
		Domain:       []float64{-50, 50},
		Cols:         []string{"x", "y", "z"},
		Format:       FormatCSV,
	}
}
