package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Event{},
		&Modality{},
		&RegistrationBatch{},
		&Price{},
		&Order{},
		&Registration{},
	); err != nil {
		return err
	}

	// Backstop for the duplicate check done inside the admission transaction:
	// a racing insert that slips past the in-transaction count fails here and
	// is mapped to the already-registered rejection.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_registrations_athlete_modality_active
		 ON registrations (athlete_id, modality_id)
		 WHERE status <> 'cancelada'`,
	).Error
}
