package shogi

const zobristSeed = uint64(0x9E3779B97F4A7C15)

// 每个语义槽位一个固定常数：splitmix64(seed + slot*golden)，与初始化顺序无关
func slotKey(slot uint64) uint64 {
	z := zobristSeed + (slot+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

const (
	maxHandCount   = 18
	pieceSlots     = 2 * int(NumPieceTypes) * NumSquares
	handSlots      = 2 * numHand * (maxHandCount + 1)
	handSlotBase   = pieceSlots
	statusSlotBase = handSlotBase + handSlots
)

var (
	zobristPieces [2][NumPieceTypes][NumSquares]uint64
	zobristHands  [2][numHand][maxHandCount + 1]uint64
	zobristStatus [2][numGameStates]uint64
)

func init() {
	for side := 0; side < 2; side++ {
		for pt := 1; pt < int(NumPieceTypes); pt++ {
			for sq := 0; sq < NumSquares; sq++ {
				slot := (side*int(NumPieceTypes)+pt)*NumSquares + sq
				zobristPieces[side][pt][sq] = slotKey(uint64(slot))
			}
		}
		for pt := int(handFirst); pt <= int(handLast); pt++ {
			// 数量 0 不贡献，保证空手驹与未初始化一致
			for n := 1; n <= maxHandCount; n++ {
				slot := handSlotBase + (side*numHand+pt)*(maxHandCount+1) + n
				zobristHands[side][pt][n] = slotKey(uint64(slot))
			}
		}
		for st := 0; st < int(numGameStates); st++ {
			slot := statusSlotBase + side*int(numGameStates) + st
			zobristStatus[side][st] = slotKey(uint64(slot))
		}
	}
}

func pieceKey(pc Piece, sq int) uint64 {
	if pc == 0 || sq < 0 || sq >= NumSquares {
		return 0
	}
	return zobristPieces[pc.Side()][pc.Type()][sq]
}

func handKey(side Side, pt PieceType, n int) uint64 {
	if n <= 0 {
		return 0
	}
	return zobristHands[side][pt][n]
}

// 提和是界面上的临时状态，按提和前的状态计入
func (p *Position) statusKey() uint64 {
	st := p.state
	if st == StateDrawOffered {
		st = p.drawBase
	}
	return zobristStatus[p.sideToMove][st]
}

// CalculateHash 按固定顺序全量计算：格子、手驹、轮次+状态
func (p *Position) CalculateHash() uint64 {
	var h uint64
	for sq := 0; sq < NumSquares; sq++ {
		h ^= pieceKey(p.squares[sq], sq)
	}
	for side := Black; side <= White; side++ {
		for pt := handFirst; pt <= handLast; pt++ {
			h ^= handKey(side, pt, int(p.hands[side][pt]))
		}
	}
	h ^= p.statusKey()
	return h
}

// Digest 增量维护的局面哈希
func (p *Position) Digest() uint64 { return p.hash }
