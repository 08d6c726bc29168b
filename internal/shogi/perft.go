package shogi

// Perft 叶子节点计数，用于校验走法生成
func (p *Position) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	var nodes int64
	for _, m := range p.EnumerateMoves() {
		u, ok := p.MakeMove(m)
		if !ok {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += p.Perft(depth - 1)
		}
		p.UnmakeMove(u)
	}
	return nodes
}

// PerftDivide 每个根着法下的叶子数
func (p *Position) PerftDivide(depth int) map[string]int64 {
	out := make(map[string]int64)
	for _, m := range p.EnumerateMoves() {
		u, ok := p.MakeMove(m)
		if !ok {
			continue
		}
		out[m.String()] = p.Perft(depth - 1)
		p.UnmakeMove(u)
	}
	return out
}
