// Package utils provides small helpers shared across layers, independent of
// domain logic.
package utils

// TotalPages returns how many pages of size items are needed for total
// items. A size below 1 counts as 1.
//
// Example:
//
//	utils.TotalPages(41, 20) // 3
//	utils.TotalPages(0, 20)  // 0
func TotalPages(total int64, size int) int {
	if size < 1 {
		size = 1
	}
	if total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
