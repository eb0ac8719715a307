package out

import "ereader/internal/modules/pagination/domain"

// LayoutEngine builds page fitters for a measurement context. The returned
// release func frees resources held by the fitter (font faces).
type LayoutEngine interface {
	NewFitter(mc domain.MeasurementContext) (domain.Fitter, func(), error)
}
