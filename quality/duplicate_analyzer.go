package quality

import (
	"log/slog"
	"sort"

	"cardindex/fingerprint"
)

// DuplicateItem is one card occurrence submitted for duplicate analysis.
// Source and Row identify where the descriptor came from so a reviewer can
// trace a group back to its input records.
type DuplicateItem struct {
	Descriptor  fingerprint.CardDescriptor
	Fingerprint string
	Source      string
	Row         int
}

// DuplicateGroup is a set of two or more items that share a fingerprint.
// MasterItem points at the most complete record of the group as a merge
// candidate. What to do with the group (merge, reject, flag) stays with the
// caller.
type DuplicateGroup struct {
	Fingerprint string
	Kind        fingerprint.Kind
	Items       []DuplicateItem
	MasterItem  *DuplicateItem
}

// DuplicateAnalyzer groups card descriptors by fingerprint.
type DuplicateAnalyzer struct {
	logger *slog.Logger
}

// NewDuplicateAnalyzer creates a duplicate analyzer.
func NewDuplicateAnalyzer() *DuplicateAnalyzer {
	return &DuplicateAnalyzer{
		logger: slog.Default().With("component", "duplicate_analyzer"),
	}
}

// AnalyzeDuplicates fingerprints every item that does not already carry a
// fingerprint, groups items by fingerprint and returns the groups with more
// than one member, sorted by fingerprint for stable output. Each group gets
// a master item: the record with the most populated fields, earliest row
// winning ties.
func (da *DuplicateAnalyzer) AnalyzeDuplicates(items []DuplicateItem) []DuplicateGroup {
	byFingerprint := make(map[string][]DuplicateItem)
	for _, item := range items {
		if item.Fingerprint == "" {
			item.Fingerprint = fingerprint.Build(item.Descriptor)
		}
		byFingerprint[item.Fingerprint] = append(byFingerprint[item.Fingerprint], item)
	}

	groups := make([]DuplicateGroup, 0)
	for fp, members := range byFingerprint {
		if len(members) < 2 {
			continue
		}
		group := DuplicateGroup{
			Fingerprint: fp,
			Kind:        fingerprint.DetectKind(fp),
			Items:       members,
		}
		group.MasterItem = selectMasterItem(group.Items)
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Fingerprint < groups[j].Fingerprint
	})

	da.logger.Info("Duplicate analysis finished",
		"items", len(items),
		"groups", len(groups))

	return groups
}

// selectMasterItem picks the most complete record of a group: the one with
// the most populated descriptor fields, first occurrence winning ties.
func selectMasterItem(items []DuplicateItem) *DuplicateItem {
	best := 0
	bestScore := populatedFieldCount(items[0].Descriptor)
	for i := 1; i < len(items); i++ {
		if score := populatedFieldCount(items[i].Descriptor); score > bestScore {
			best, bestScore = i, score
		}
	}
	return &items[best]
}

func populatedFieldCount(d fingerprint.CardDescriptor) int {
	count := 0
	for _, f := range []*string{
		d.CertificationNumber,
		d.PlayerName,
		d.SetName,
		d.Year,
		d.CardNumber,
		d.Variant,
		d.Grade,
		d.GradingAuthority,
	} {
		if !isBlank(f) {
			count++
		}
	}
	return count
}
