package domain

// LikeState is the watch/like part of the snapshot metrics.
type LikeState struct {
	UserLiked bool `json:"userLiked"`
	Watchers  int  `json:"watchers"`
}

// Toggled flips the like and moves watchers by one in the same direction.
func (ls LikeState) Toggled() LikeState {
	if ls.UserLiked {
		return LikeState{UserLiked: false, Watchers: clampWatchers(ls.Watchers - 1)}
	}
	return LikeState{UserLiked: true, Watchers: clampWatchers(ls.Watchers + 1)}
}

// Forced moves the state to liked, adjusting watchers only when the flag
// actually changes so a correction is never applied twice.
func (ls LikeState) Forced(liked bool) LikeState {
	if ls.UserLiked == liked {
		ls.Watchers = clampWatchers(ls.Watchers)
		return ls
	}
	return ls.Toggled()
}

func clampWatchers(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
