package usecase

import "github.com/kirillkom/legal-clause-validator/internal/core/domain"

// DetectDocumentType returns the most frequent label. Ties go to the label seen
// first in clause order, so ["B","A","A","B"] yields "B".
func DetectDocumentType(classifications []domain.Classification) string {
	if len(classifications) == 0 {
		return domain.UnknownDocumentType
	}

	counts := make(map[string]int, len(classifications))
	order := make([]string, 0, len(classifications))
	for _, cls := range classifications {
		if _, ok := counts[cls.Label]; !ok {
			order = append(order, cls.Label)
		}
		counts[cls.Label]++
	}

	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}
