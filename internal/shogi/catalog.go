package shogi

// Vector 相对先手方向的走法：Dr<0 为前进
type Vector struct {
	Dr, Dc int
	Slide  bool // false=一步；true=直线滑行直到被挡
}

var (
	goldSteps = []Vector{{-1, -1, false}, {-1, 0, false}, {-1, 1, false}, {0, -1, false}, {0, 1, false}, {1, 0, false}}
	kingSteps = []Vector{
		{-1, -1, false}, {-1, 0, false}, {-1, 1, false},
		{0, -1, false}, {0, 1, false},
		{1, -1, false}, {1, 0, false}, {1, 1, false},
	}
	rookRays   = []Vector{{-1, 0, true}, {1, 0, true}, {0, -1, true}, {0, 1, true}}
	bishopRays = []Vector{{-1, -1, true}, {-1, 1, true}, {1, -1, true}, {1, 1, true}}
)

var movement = [NumPieceTypes][]Vector{
	PiecePawn:      {{-1, 0, false}},
	PieceLance:     {{-1, 0, true}},
	PieceKnight:    {{-2, -1, false}, {-2, 1, false}},
	PieceSilver:    {{-1, -1, false}, {-1, 0, false}, {-1, 1, false}, {1, -1, false}, {1, 1, false}},
	PieceGold:      goldSteps,
	PieceBishop:    bishopRays,
	PieceRook:      rookRays,
	PieceKing:      kingSteps,
	PieceProPawn:   goldSteps,
	PieceProLance:  goldSteps,
	PieceProKnight: goldSteps,
	PieceProSilver: goldSteps,
	PieceHorse:     append(append([]Vector{}, bishopRays...), Vector{-1, 0, false}, Vector{1, 0, false}, Vector{0, -1, false}, Vector{0, 1, false}),
	PieceDragon:    append(append([]Vector{}, rookRays...), Vector{-1, -1, false}, Vector{-1, 1, false}, Vector{1, -1, false}, Vector{1, 1, false}),
}

// 后手的走法 = 先手旋转 180 度
var oriented = func() (out [2][NumPieceTypes][]Vector) {
	for pt := PiecePawn; pt < NumPieceTypes; pt++ {
		out[Black][pt] = movement[pt]
		flipped := make([]Vector, len(movement[pt]))
		for i, v := range movement[pt] {
			flipped[i] = Vector{Dr: -v.Dr, Dc: -v.Dc, Slide: v.Slide}
		}
		out[White][pt] = flipped
	}
	return out
}()

var promoteTo = [NumPieceTypes]PieceType{
	PiecePawn:   PieceProPawn,
	PieceLance:  PieceProLance,
	PieceKnight: PieceProKnight,
	PieceSilver: PieceProSilver,
	PieceBishop: PieceHorse,
	PieceRook:   PieceDragon,
}

var demoteTo = [NumPieceTypes]PieceType{
	PiecePawn:      PiecePawn,
	PieceLance:     PieceLance,
	PieceKnight:    PieceKnight,
	PieceSilver:    PieceSilver,
	PieceGold:      PieceGold,
	PieceBishop:    PieceBishop,
	PieceRook:      PieceRook,
	PieceKing:      PieceKing,
	PieceProPawn:   PiecePawn,
	PieceProLance:  PieceLance,
	PieceProKnight: PieceKnight,
	PieceProSilver: PieceSilver,
	PieceHorse:     PieceBishop,
	PieceDragon:    PieceRook,
}

var baseValue = [NumPieceTypes]int{
	PiecePawn:      100,
	PieceLance:     300,
	PieceKnight:    400,
	PieceSilver:    500,
	PieceGold:      600,
	PieceBishop:    800,
	PieceRook:      1000,
	PieceKing:      0, // 不计入子力
	PieceProPawn:   550,
	PieceProLance:  550,
	PieceProKnight: 550,
	PieceProSilver: 580,
	PieceHorse:     1100,
	PieceDragon:    1300,
}

func mustKind(pt PieceType) {
	if pt <= PieceNone || pt >= NumPieceTypes {
		panic("shogi: unknown piece type")
	}
}

// Movement 先手视角的走法表
func Movement(pt PieceType) []Vector {
	mustKind(pt)
	return movement[pt]
}

// OrientedMovement 按 side 的前进方向给出走法表
func OrientedMovement(side Side, pt PieceType) []Vector {
	mustKind(pt)
	return oriented[side][pt]
}

func PromotedForm(pt PieceType) (PieceType, bool) {
	mustKind(pt)
	p := promoteTo[pt]
	return p, p != PieceNone
}

func DemotedForm(pt PieceType) PieceType {
	mustKind(pt)
	return demoteTo[pt]
}

func BaseValue(pt PieceType) int {
	mustKind(pt)
	return baseValue[pt]
}

func (pt PieceType) CanPromote() bool {
	return pt > PieceNone && pt < NumPieceTypes && promoteTo[pt] != PieceNone
}

func (pt PieceType) IsPromoted() bool {
	return pt >= PieceProPawn && pt < NumPieceTypes
}

// 到达该行以后再也走不动（必须升变 / 不能打入）
func deadRow(side Side, pt PieceType, row int) bool {
	rel := relRow(side, row) // 0 = 对方底线
	switch pt {
	case PiecePawn, PieceLance:
		return rel == 0
	case PieceKnight:
		return rel <= 1
	}
	return false
}
