package attendance

import "context"

// RecordRepository reads uploaded attendance rows. Rows come back in upload
// order; callers treat the result as an immutable snapshot.
type RecordRepository interface {
	ListRows(ctx context.Context) ([]Row, error)
}
