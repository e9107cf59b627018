package align

import "github.com/benedoc-inc/docdiff/types"

// findLCSMatches finds the longest common subsequence of identical units using
// dynamic programming. Time: O(n*m), Space: O(n*m)
func findLCSMatches(left, right []types.ComparableUnit) []matchPair {
	matches := []matchPair{}

	n := len(left)
	m := len(right)
	if n == 0 || m == 0 {
		return matches
	}

	// dp[i][j] = length of LCS of left[0..i-1] and right[0..j-1]
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if identical(&left[i-1], &right[j-1]) {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backtrack from the end of both sequences
	i, j := n, m
	for i > 0 && j > 0 {
		if identical(&left[i-1], &right[j-1]) {
			matches = append(matches, matchPair{i1: i - 1, i2: j - 1})
			i--
			j--
		} else if dp[i-1][j] >= dp[i][j-1] {
			i--
		} else {
			j--
		}
	}

	// Built backwards
	for a, b := 0, len(matches)-1; a < b; a, b = a+1, b-1 {
		matches[a], matches[b] = matches[b], matches[a]
	}
	return matches
}
