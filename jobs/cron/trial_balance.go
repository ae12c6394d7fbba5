package cron

import (
	"time"

	"github.com/jasonlvhit/gocron"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/services"
)

type TrialBalanceJob struct {
}

func (j *TrialBalanceJob) Process() {
	s := gocron.NewScheduler()
	s.Every(1).Day().At("00:30:00").Do(auditLedger)
	<-s.Start()
}

// auditLedger recomputes the accounting equation over the whole journal.
// A non-zero gap means a write path managed to store an unbalanced entry,
// which should be impossible; log it loudly and let operators investigate.
func auditLedger() {
	reports := services.NewReportService(config.DataBase)

	sheet, err := reports.BalanceSheet(time.Now().UTC())
	if err != nil {
		config.Logger.Errorf("trial balance audit failed: %v", err)
		return
	}

	gap := sheet.EquationGap()
	if !gap.IsZero() {
		config.Logger.Errorf("trial balance audit: accounting equation off by %s", gap.String())
		return
	}

	config.Logger.Infof("trial balance audit: ledger balanced as of %s", sheet.AsOf.Format(time.RFC3339))
}
