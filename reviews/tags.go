// Package reviews decides forum tags and feedback messages for profile
// review threads.
package reviews

import (
	"errors"
	"fmt"
)

// Forum tag names expected in the review forum's vocabulary.
const (
	TagCV       = "zpětná vazba na CV"
	TagGitHub   = "zpětná vazba na GH"
	TagLinkedIn = "zpětná vazba na LI"
)

// ErrUnknownTag means the forum does not define a tag the bot needs.
var ErrUnknownTag = errors.New("forum tag not available")

// Flags records what one review run found in the thread.
type Flags struct {
	CV       bool
	GitHub   bool
	LinkedIn bool
}

// Any reports whether at least one finding is set.
func (f Flags) Any() bool {
	return f.CV || f.GitHub || f.LinkedIn
}

// ComputeTags returns current extended with the handle of every found
// item, looked up by name in vocabulary. Existing tags keep their order
// and are never removed. A found item whose tag is missing from the
// vocabulary is an ErrUnknownTag.
func ComputeTags(current []string, vocabulary map[string]string, flags Flags) ([]string, error) {
	tags := make([]string, 0, len(current)+3)
	seen := make(map[string]struct{}, len(current)+3)
	for _, tag := range current {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	wanted := []struct {
		found bool
		name  string
	}{
		{flags.CV, TagCV},
		{flags.GitHub, TagGitHub},
		{flags.LinkedIn, TagLinkedIn},
	}
	for _, w := range wanted {
		if !w.found {
			continue
		}
		handle, ok := vocabulary[w.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, w.name)
		}
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		tags = append(tags, handle)
	}
	return tags, nil
}
