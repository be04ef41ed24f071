package models

// AllModels returns every persistence model for schema migration.
func AllModels() []interface{} {
	return []interface{}{
		&ChannelModel{},
		&SessionModel{},
		&EventModel{},
		&CredentialModel{},
		&CampaignModel{},
		&FlightModel{},
		&CreativeModel{},
		&AssignmentModel{},
	}
}
