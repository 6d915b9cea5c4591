package pipeline

import (
	"github.com/Monilnarang/Therapy-Esther/internal/config"
)

// GroupStats counts utterances dropped during grouping. Unmapped speakers are
// counted per label so a miss in the episode configuration is auditable.
type GroupStats struct {
	Excluded int
	Unmapped map[string]int
}

// Dropped reports the total number of utterances that produced no line.
func (s GroupStats) Dropped() int {
	n := s.Excluded
	for _, c := range s.Unmapped {
		n += c
	}
	return n
}

// GroupUtterances collapses consecutive same-role utterances into turn groups.
//
// Excluded and unmapped speakers are dropped without closing the open group,
// so a brief crosstalk interjection does not split an otherwise continuous
// turn. Therapist lines are kept verbatim; client lines carry their partner
// identifier according to the prefix policy.
func GroupUtterances(utts []AttributedUtterance, profile *config.SpeakerProfile, prefix config.PrefixPolicy) ([]TurnGroup, GroupStats) {
	stats := GroupStats{Unmapped: make(map[string]int)}

	var groups []TurnGroup
	var cur *TurnGroup
	curPartner := ""

	for _, u := range utts {
		if profile.Excluded[u.Speaker] {
			stats.Excluded++
			continue
		}

		var role Role
		partner := ""
		switch {
		case profile.Therapist[u.Speaker]:
			role = RoleTherapist
		default:
			name, ok := profile.Partners[u.Speaker]
			if !ok {
				stats.Unmapped[u.Speaker]++
				continue
			}
			role = RoleClient
			partner = name
		}

		if cur == nil || cur.Role != role {
			if cur != nil && len(cur.Lines) > 0 {
				groups = append(groups, *cur)
			}
			cur = &TurnGroup{Role: role}
			curPartner = ""
		}

		line := u.Text
		if role == RoleClient {
			if prefix == config.PrefixAlways || partner != curPartner {
				line = "[" + partner + "]: " + u.Text
			}
			curPartner = partner
		}
		cur.Lines = append(cur.Lines, line)
	}

	if cur != nil && len(cur.Lines) > 0 {
		groups = append(groups, *cur)
	}

	return groups, stats
}
