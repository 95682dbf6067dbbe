package engine

import (
	"fmt"
	"strings"

	"github.com/dd0wney/firecalc/pkg/battery"
	"github.com/dd0wney/firecalc/pkg/journal"
	"github.com/dd0wney/firecalc/pkg/logging"
	"github.com/dd0wney/firecalc/pkg/pubsub"
	"github.com/dd0wney/firecalc/pkg/wire"
)

// CalculateBatteryRequirements sizes the standby battery for a panel from
// every circuit whose key contains the panel id. Device currents come from
// the catalog, keyed by the segment's destination device; unregistered
// devices get the documented 20 mA default.
func (e *Engine) CalculateBatteryRequirements(panelID string) (battery.Calculation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var standby, alarm []float64
	for key, c := range e.circuits {
		if !strings.Contains(key, panelID) {
			continue
		}
		for _, seg := range c.segments {
			current := e.catalog.CurrentOrDefault(seg.ToDevice)
			switch c.circuitType {
			case wire.CircuitNAC:
				// Notification appliances idle at a supervision trickle and
				// draw full current only in alarm.
				standby = append(standby, battery.NACStandbyPerDeviceA)
				alarm = append(alarm, current)
			case wire.CircuitSLC:
				standby = append(standby, current)
				alarm = append(alarm, current*battery.SLCAlarmMultiplier)
			default:
				standby = append(standby, current)
				alarm = append(alarm, current)
			}
		}
	}

	standby = append(standby, battery.PanelStandbyA)
	alarm = append(alarm, battery.PanelAlarmA)

	calc, err := battery.Size(standby, alarm,
		battery.DefaultBackupHours, battery.DefaultAlarmHours, battery.DefaultDerate)
	if err != nil {
		return battery.Calculation{}, fmt.Errorf("battery requirements for %s: %w", panelID, err)
	}

	if e.metrics != nil {
		e.metrics.RecordBattery(panelID, calc.RecommendedAH)
	}
	e.journalEvent(journal.KindBattery, calc)
	if e.bus != nil {
		e.bus.Publish(pubsub.TopicBattery, calc)
	}
	e.logger.Info("battery sized",
		logging.Panel(panelID),
		logging.Float64("recommended_ah", calc.RecommendedAH),
		logging.Amps("standby_a", calc.StandbyCurrentA))

	return calc, nil
}
