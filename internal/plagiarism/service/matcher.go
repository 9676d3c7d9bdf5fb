package service

import (
	"math"
	"sort"

	"plagiarism-service/internal/plagiarism/model"
)

// Жадный поиск совпадающих блоков по двум каноническим строкам:
// ищем самую длинную общую подстроку, рекурсивно обрабатываем куски слева и
// справа от неё. Junk-фильтрации нет — участвует каждый символ. При
// нескольких equally длинных кандидатах берём самый левый в A, затем самый
// левый в B (порядок обхода это гарантирует).
type matcher struct {
	a, b []rune
	b2j  map[rune][]int // символ -> позиции в b, по возрастанию
}

func newMatcher(a, b string) *matcher {
	m := &matcher{a: []rune(a), b: []rune(b), b2j: make(map[rune][]int)}
	for j, r := range m.b {
		m.b2j[r] = append(m.b2j[r], j)
	}
	return m
}

// findLongestMatch — самая длинная общая подстрока a[alo:ahi] и b[blo:bhi].
// ДП по строке i: j2len[j] = длина совпадения, заканчивающегося в (i, j).
func (m *matcher) findLongestMatch(alo, ahi, blo, bhi int) model.Match {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			// строго больше: равные по длине не сдвигают ответ,
			// поэтому побеждает самый левый вариант
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return model.Match{A: besti, B: bestj, Size: bestsize}
}

// matchingBlocks — все блоки совпадений, по возрастанию смещения в A,
// без пересечений; смежные блоки склеены.
func (m *matcher) matchingBlocks() []model.Match {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}

	var blocks []model.Match
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		mt := m.findLongestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if mt.Size == 0 {
			continue
		}
		blocks = append(blocks, mt)
		if s.alo < mt.A && s.blo < mt.B {
			queue = append(queue, span{s.alo, mt.A, s.blo, mt.B})
		}
		if mt.A+mt.Size < s.ahi && mt.B+mt.Size < s.bhi {
			queue = append(queue, span{mt.A + mt.Size, s.ahi, mt.B + mt.Size, s.bhi})
		}
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].A < blocks[j].A })

	// склейка смежных блоков
	out := blocks[:0]
	for _, b := range blocks {
		if n := len(out); n > 0 && out[n-1].A+out[n-1].Size == b.A && out[n-1].B+out[n-1].Size == b.B {
			out[n-1].Size += b.Size
			continue
		}
		out = append(out, b)
	}
	return out
}

// MatchBlocks — блоки совпадений двух канонических строк (для подсветки).
func MatchBlocks(a, b string) []model.Match {
	return newMatcher(a, b).matchingBlocks()
}

// Score — процент похожести 2*M/T и блоки, на которых он посчитан.
// M — суммарная длина блоков, T — сумма длин строк; две пустые строки
// считаются одинаковыми (100%). Округление до двух знаков.
func Score(a, b string) (float64, []model.Match) {
	t := len([]rune(a)) + len([]rune(b))
	if t == 0 {
		return 100.0, nil
	}
	blocks := MatchBlocks(a, b)
	matched := 0
	for _, bl := range blocks {
		matched += bl.Size
	}
	ratio := 2.0 * float64(matched) / float64(t)
	return math.Round(ratio*10000) / 100, blocks
}
