// Package slots contains the slot and epoch arithmetic of the beacon chain
// together with a ticker firing at every slot boundary.
package slots

import (
	"time"

	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
)

// ToEpoch returns the epoch number of the input slot.
//
// Spec pseudocode definition:
//
//	def compute_epoch_at_slot(slot: Slot) -> Epoch:
//	  """
//	  Return the epoch number at ``slot``.
//	  """
//	  return Epoch(slot // SLOTS_PER_EPOCH)
func ToEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(slot / params.BeaconConfig().SlotsPerEpoch)
}

// EpochStart returns the first slot number of the
// current epoch.
//
// Spec pseudocode definition:
//
//	def compute_start_slot_at_epoch(epoch: Epoch) -> Slot:
//	  """
//	  Return the start slot of ``epoch``.
//	  """
//	  return Slot(epoch * SLOTS_PER_EPOCH)
func EpochStart(epoch primitives.Epoch) primitives.Slot {
	return primitives.Slot(epoch) * params.BeaconConfig().SlotsPerEpoch
}

// IsEpochStart returns true if the given slot number is an epoch starting slot
// number.
func IsEpochStart(slot primitives.Slot) bool {
	return slot%params.BeaconConfig().SlotsPerEpoch == 0
}

// CurrentSlot returns the current slot as determined by the local clock and
// provided genesis time.
func CurrentSlot(genesisTime time.Time) primitives.Slot {
	now := time.Now()
	if now.Before(genesisTime) {
		return 0
	}
	return primitives.Slot(uint64(now.Sub(genesisTime).Seconds()) / params.BeaconConfig().SecondsPerSlot)
}

// StartTime returns the start time of the slot.
func StartTime(genesisTime time.Time, slot primitives.Slot) time.Time {
	return genesisTime.Add(time.Duration(uint64(slot)*params.BeaconConfig().SecondsPerSlot) * time.Second)
}
