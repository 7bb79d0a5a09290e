package fieldmapping

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// fuzzyCandidateFloor là độ tương đồng tối thiểu để một trường được coi là
// candidate từ fuzzy lookup. Dưới ngưỡng này với mọi trường thì đi đường fallback.
const fuzzyCandidateFloor = 0.25

// Matcher giữ catalog và index term (label, fieldId, keyword) đã chuẩn hóa
// cho từng trường. Matcher là immutable sau khi tạo, dùng lại được cho nhiều
// lần detect.
type Matcher struct {
	catalog []CatalogField
	terms   [][]string // terms[i] là các term đã chuẩn hóa của catalog[i]
}

// NewMatcher tạo Matcher từ catalog. Thứ tự catalog được giữ nguyên và dùng
// làm tie-break cuối cùng.
func NewMatcher(catalog []CatalogField) *Matcher {
	m := &Matcher{
		catalog: catalog,
		terms:   make([][]string, len(catalog)),
	}
	for i, f := range catalog {
		terms := []string{NormalizeHeader(f.Label), strings.ToLower(f.FieldID)}
		for _, kw := range KeywordsForField(f.FieldID) {
			terms = append(terms, kw)
		}
		m.terms[i] = terms
	}
	return m
}

// DetectMappings gợi ý mapping cho từng header, trả về theo đúng thứ tự header.
// Header không tìm được trường phù hợp vẫn có mặt trong kết quả với
// TargetFieldID rỗng và Confidence 0.
func (m *Matcher) DetectMappings(headers []string, sampleRows [][]string) []DetectedFieldMapping {
	results := make([]DetectedFieldMapping, 0, len(headers))
	for col, header := range headers {
		samples := collectSamples(sampleRows, col)
		results = append(results, m.detectOne(header, samples))
	}
	return results
}

// collectSamples lấy mọi giá trị không rỗng của một cột trong sampleRowLimit dòng đầu.
// Toàn bộ kết quả dùng để chấm data-pattern; phần hiển thị bị cắt riêng ở detectOne.
func collectSamples(sampleRows [][]string, col int) []string {
	samples := make([]string, 0, sampleRowLimit)
	for i, row := range sampleRows {
		if i >= sampleRowLimit {
			break
		}
		if col >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[col]); v != "" {
			samples = append(samples, v)
		}
	}
	return samples
}

// scoredCandidate là một trường kèm điểm trong quá trình chấm.
type scoredCandidate struct {
	index      int // vị trí trong catalog
	similarity float64
	score      int
}

// detectOne chấm điểm một header và trả về gợi ý tốt nhất (hoặc unmapped).
func (m *Matcher) detectOne(header string, samples []string) DetectedFieldMapping {
	result := DetectedFieldMapping{
		SourceHeader: header,
		SampleValues: samples,
	}
	// Giới hạn sampleValueLimit chỉ áp cho phần hiển thị, không áp cho chấm điểm
	if len(result.SampleValues) > sampleValueLimit {
		result.SampleValues = result.SampleValues[:sampleValueLimit]
	}

	normalized := NormalizeHeader(header)
	if normalized == "" {
		return result
	}
	tokens := headerTokens(normalized)

	// Fuzzy lookup: tính độ tương đồng tốt nhất của header với các term của từng trường
	candidates := make([]scoredCandidate, 0, len(m.catalog))
	for i := range m.catalog {
		sim := m.bestSimilarity(normalized, i)
		if sim >= fuzzyCandidateFloor {
			candidates = append(candidates, scoredCandidate{index: i, similarity: sim})
		}
	}

	var best *scoredCandidate
	if len(candidates) == 0 {
		// Fallback: không có candidate nào từ fuzzy lookup — chấm mọi trường
		// chỉ bằng data-pattern + word overlap
		best = m.pickBest(m.scoreFallback(normalized, tokens, samples))
	} else {
		m.sortBySimilarity(candidates)
		if len(candidates) > maxFuzzyCandidate {
			candidates = candidates[:maxFuzzyCandidate]
		}
		for i := range candidates {
			c := &candidates[i]
			field := m.catalog[c.index]
			score := int(c.similarity*float64(maxFuzzyScore) + 0.5)
			score += patternScore(field.DataType, samples)
			score += m.keywordBonus(normalized, field.FieldID)
			score += m.overlapScore(normalized, tokens, c.index)
			if score > 100 {
				score = 100
			}
			c.score = score
		}
		best = m.pickBest(candidates)
	}

	if best == nil || best.score <= acceptThreshold {
		return result
	}

	field := m.catalog[best.index]
	result.TargetFieldID = field.FieldID
	result.Confidence = best.score
	if field.IsCore {
		result.Classification = ClassificationCore
	} else {
		result.Classification = ClassificationCustom
	}
	return result
}

// bestSimilarity trả về độ tương đồng cao nhất giữa header và các term của trường thứ i.
// Độ tương đồng = 1 - levenshtein/maxLen.
func (m *Matcher) bestSimilarity(normalized string, i int) float64 {
	best := 0.0
	headerLen := utf8.RuneCountInString(normalized)
	for _, term := range m.terms[i] {
		if term == "" {
			continue
		}
		maxLen := headerLen
		if n := utf8.RuneCountInString(term); n > maxLen {
			maxLen = n
		}
		dist := fuzzy.LevenshteinDistance(normalized, term)
		sim := 1.0 - float64(dist)/float64(maxLen)
		if sim > best {
			best = sim
		}
	}
	return best
}

// sortBySimilarity sắp candidate theo độ tương đồng giảm dần, cùng độ tương đồng
// thì trường core đứng trước, sau đó theo thứ tự catalog.
func (m *Matcher) sortBySimilarity(candidates []scoredCandidate) {
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.similarity != cb.similarity {
			return ca.similarity > cb.similarity
		}
		fa, fb := m.catalog[ca.index], m.catalog[cb.index]
		if fa.IsCore != fb.IsCore {
			return fa.IsCore
		}
		return ca.index < cb.index
	})
}

// scoreFallback chấm mọi trường trong catalog chỉ bằng pattern + overlap.
func (m *Matcher) scoreFallback(normalized string, tokens []string, samples []string) []scoredCandidate {
	candidates := make([]scoredCandidate, 0, len(m.catalog))
	for i := range m.catalog {
		score := patternScore(m.catalog[i].DataType, samples)
		score += m.overlapScore(normalized, tokens, i)
		if score > 100 {
			score = 100
		}
		candidates = append(candidates, scoredCandidate{index: i, score: score})
	}
	return candidates
}

// pickBest chọn candidate điểm cao nhất. Tie-break: trường core trước custom,
// sau đó theo thứ tự catalog.
func (m *Matcher) pickBest(candidates []scoredCandidate) *scoredCandidate {
	var best *scoredCandidate
	for i := range candidates {
		c := &candidates[i]
		if best == nil || c.score > best.score {
			best = c
			continue
		}
		if c.score == best.score {
			if m.catalog[c.index].IsCore && !m.catalog[best.index].IsCore {
				best = c
			}
		}
	}
	return best
}

// keywordBonus cộng điểm cho mỗi keyword của trường xuất hiện trong header, có trần.
func (m *Matcher) keywordBonus(normalized, fieldID string) int {
	count := 0
	for _, kw := range KeywordsForField(fieldID) {
		if strings.Contains(normalized, kw) {
			count++
		}
	}
	bonus := count * keywordBonusEach
	if bonus > maxKeywordBonus {
		bonus = maxKeywordBonus
	}
	return bonus
}

// overlapScore là word-overlap kiểu cũ: token của header trùng (chứa hoặc được
// chứa trong) token của label/fieldId, cộng thêm điểm exact match khi header
// chuẩn hóa trùng hẳn label hoặc fieldId.
func (m *Matcher) overlapScore(normalized string, tokens []string, i int) int {
	field := m.catalog[i]
	labelNorm := NormalizeHeader(field.Label)
	idNorm := strings.ToLower(field.FieldID)

	score := 0
	labelTokens := strings.Fields(labelNorm)
	for _, t := range tokens {
		if len(t) < 2 {
			continue
		}
		for _, lt := range labelTokens {
			if containsEither(t, lt) {
				score += overlapLabelBonus
				break
			}
		}
	}
	for _, t := range tokens {
		if len(t) < 2 {
			continue
		}
		if containsEither(t, idNorm) {
			score += overlapIDBonus
		}
	}
	if score > maxOverlapBonus {
		score = maxOverlapBonus
	}

	if normalized == labelNorm || normalized == idNorm {
		score += exactMatchBonus
	}
	return score
}

// containsEither kiểm tra a chứa b hoặc b chứa a.
func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
