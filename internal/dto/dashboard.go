package dto

// DashboardQuery captures GET /dashboard parameters.
type DashboardQuery struct {
	Section  string `form:"section" validate:"required"`
	Division string `form:"division" validate:"required"`
	Date     string `form:"date"`
}
