package shogi

type Side int8

const (
	NoSide Side = -1
	Black  Side = 0 // 先手，向上走
	White  Side = 1 // 后手，向下走
)

func (s Side) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "none"
	}
}

type PieceType int8

const (
	PieceNone      PieceType = iota
	PiecePawn                // 歩
	PieceLance               // 香
	PieceKnight              // 桂
	PieceSilver              // 銀
	PieceGold                // 金
	PieceBishop              // 角
	PieceRook                // 飛
	PieceKing                // 玉
	PieceProPawn             // と
	PieceProLance            // 成香
	PieceProKnight           // 成桂
	PieceProSilver           // 成銀
	PieceHorse               // 馬
	PieceDragon              // 竜

	NumPieceTypes
)

// 手驹只会是未成的 歩..飛
const (
	handFirst = PiecePawn
	handLast  = PieceRook
	numHand   = int(handLast) + 1
)

type Piece int8 // 0=空；>0 先手；<0 后手；abs=PieceType

func makePiece(side Side, pt PieceType) Piece {
	if pt == PieceNone || side == NoSide {
		return 0
	}
	if side == Black {
		return Piece(pt)
	}
	return -Piece(pt)
}

// MakePiece 给外部（局面编辑、测试）用
func MakePiece(side Side, pt PieceType) Piece { return makePiece(side, pt) }

func (p Piece) Type() PieceType {
	if p < 0 {
		return PieceType(-p)
	}
	return PieceType(p)
}

func (p Piece) Side() Side {
	if p == 0 {
		return NoSide
	}
	if p > 0 {
		return Black
	}
	return White
}

func (p Piece) Promoted() bool { return p.Type().IsPromoted() }

// GameState 对局状态机
type GameState int8

const (
	StatePuzzle       GameState = iota // 自由摆子，不校验
	StatePlay                          // 正常轮到一方走
	StateCheck                         // 轮到的一方被将
	StateConfirm                       // 已落子，等待 Commit
	StateConfirmCheck                  // 已落子且将军，等待 Commit
	StateIllegalMove                   // 已落子但违规，调用方须 Unapply
	StateDrawOffered                   // 提和中，等待答复
	StateGameover

	numGameStates
)

func (s GameState) String() string {
	switch s {
	case StatePuzzle:
		return "puzzle"
	case StatePlay:
		return "play"
	case StateCheck:
		return "check"
	case StateConfirm:
		return "confirm"
	case StateConfirmCheck:
		return "confirm_check"
	case StateIllegalMove:
		return "illegal_move"
	case StateDrawOffered:
		return "draw_offered"
	case StateGameover:
		return "gameover"
	default:
		panic("unknown game state")
	}
}

type Result int8

const (
	ResultNone Result = iota
	ResultBlackWin
	ResultWhiteWin
	ResultDraw
)

func (r Result) String() string {
	switch r {
	case ResultNone:
		return "none"
	case ResultBlackWin:
		return "black_win"
	case ResultWhiteWin:
		return "white_win"
	case ResultDraw:
		return "draw"
	default:
		panic("unknown result")
	}
}

func winFor(side Side) Result {
	if side == Black {
		return ResultBlackWin
	}
	return ResultWhiteWin
}

type Reason int8

const (
	ReasonNone Reason = iota
	ReasonCheckmate
	ReasonNoMoves
	ReasonResign
	ReasonDrawAgreed
	ReasonRepetition
	ReasonPerpetualCheck
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCheckmate:
		return "checkmate"
	case ReasonNoMoves:
		return "no_moves"
	case ReasonResign:
		return "resign"
	case ReasonDrawAgreed:
		return "draw_agreed"
	case ReasonRepetition:
		return "repetition"
	case ReasonPerpetualCheck:
		return "perpetual_check"
	default:
		panic("unknown reason")
	}
}

type MoveKind int8

const (
	MoveNone MoveKind = iota
	MoveBoard
	MoveDrop
	MoveResign
	MoveOfferDraw
	MoveAcceptDraw
	MoveDeclineDraw
	MoveCommit
)

// Move 值类型，可作 map key。Drop 时 From = NoSquare。
type Move struct {
	Kind    MoveKind  `json:"kind"`
	From    int       `json:"from"`
	To      int       `json:"to"`
	Drop    PieceType `json:"drop,omitempty"`
	Promote bool      `json:"promote,omitempty"`
	Score   int       `json:"-"` // 搜索排序用
}

var (
	Resign      = Move{Kind: MoveResign, From: NoSquare, To: NoSquare}
	OfferDraw   = Move{Kind: MoveOfferDraw, From: NoSquare, To: NoSquare}
	AcceptDraw  = Move{Kind: MoveAcceptDraw, From: NoSquare, To: NoSquare}
	DeclineDraw = Move{Kind: MoveDeclineDraw, From: NoSquare, To: NoSquare}
	Commit      = Move{Kind: MoveCommit, From: NoSquare, To: NoSquare}
)

func NewBoardMove(from, to int, promote bool) Move {
	return Move{Kind: MoveBoard, From: from, To: to, Promote: promote}
}

func NewDropMove(pt PieceType, to int) Move {
	return Move{Kind: MoveDrop, From: NoSquare, To: to, Drop: pt}
}

// Same 忽略 Score 比较两步棋
func (m Move) Same(o Move) bool {
	return m.Kind == o.Kind && m.From == o.From && m.To == o.To && m.Drop == o.Drop && m.Promote == o.Promote
}

func (m Move) IsNone() bool { return m.Kind == MoveNone }
