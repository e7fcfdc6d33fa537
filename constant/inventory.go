package constant

import "time"

type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusCommitted HoldStatus = "committed"
	HoldStatusReleased  HoldStatus = "released"
	HoldStatusExpired   HoldStatus = "expired"
)

type LedgerEventKind string

const (
	LedgerEventInflow     LedgerEventKind = "inflow"
	LedgerEventAdjustment LedgerEventKind = "adjustment"
)

// Adjustment reason codes accepted from the correction workflow.
const (
	AdjustmentReasonRecount  = "recount"
	AdjustmentReasonDamaged  = "damaged"
	AdjustmentReasonLost     = "lost"
	AdjustmentReasonReturned = "returned"
	AdjustmentReasonOther    = "other"
)

const (
	DefaultHoldTTL       = 10 * time.Minute
	DefaultHoldReapLimit = 50
)
