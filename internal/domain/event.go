package domain

// OpType is the staking operation type code used by the upstream
// event log producer. The numeric values are part of the wire format
// and must not be reordered.
type OpType int

// Operation type codes.
const (
	OpInitialize OpType = 0
	OpStake      OpType = 1
	OpUnstake    OpType = 2
	OpWithdraw   OpType = 3
	OpCompound   OpType = 4
	OpClaim      OpType = 5
)

// opNames maps type codes to (machine name, display label) pairs.
var opNames = map[OpType][2]string{
	OpInitialize: {"initialize", "Initialize Position"},
	OpStake:      {"stake", "Stake"},
	OpUnstake:    {"unstake", "Unstake"},
	OpWithdraw:   {"withdraw", "Withdraw"},
	OpCompound:   {"compound", "Compound"},
	OpClaim:      {"claim", "Claim Rewards"},
}

// Name returns the machine-readable operation name, or "unknown"
// for codes outside the fixed mapping.
func (t OpType) Name() string {
	if n, ok := opNames[t]; ok {
		return n[0]
	}
	return "unknown"
}

// Label returns the human-readable operation label, or "Unknown"
// for codes outside the fixed mapping.
func (t OpType) Label() string {
	if n, ok := opNames[t]; ok {
		return n[1]
	}
	return "Unknown"
}

func (t OpType) String() string { return t.Name() }

// Event is one decoded staking event. The upstream log encodes events
// as fixed-position tuples; decoding into named fields happens once at
// load time so downstream code never touches raw positions.
type Event struct {
	Signature       string  // transaction signature, unique per event
	Timestamp       string  // ISO-8601, chronological in log order
	Slot            int64   // chain block height, informational only
	Type            OpType  // operation type code
	Address         string  // wallet address the event belongs to
	DeltaStaked     float64 // signed change in staked balance
	DeltaPending    float64 // signed change in unstaked/pending balance
	DeltaWithdrawn  float64 // signed change in withdrawn total
	DeltaCompounded float64 // amount compounded by this event
	FeePayer        string  // fee payer address, empty if absent
	Reward          float64 // reward in settlement currency (SOL)
}
