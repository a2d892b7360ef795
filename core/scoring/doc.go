// Package scoring computes the composite marketplace score shown next to a
// listing in comparisons.
//
// The score starts from the listing's average rating on the 0–5 scale. When
// a review count is known the average is pulled toward a neutral midpoint in
// proportion to how few reviews back it, so a perfect score from a single
// review does not outrank a slightly lower score from hundreds. Trust
// signals then add small, capped bonuses. The result is clamped to [0, 5]
// and rounded to one decimal.
package scoring
