// Package database opens the preferences database and inspects its schema.
//
// Connect wraps GORM for the two supported drivers: sqlite (a local file,
// the default) and mysql for shared deployments. MissingColumns reads the
// live column list so the doctor command can confirm the preferences table
// matches the model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Preferences disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "preferences", []string{"key", "value"})
package database
