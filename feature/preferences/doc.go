// Package preferences persists small per-player settings, such as the
// TrueSteamAchievements profile URL a player entered last time.
//
// Values are stored in the preferences table through gorm and exposed at
// GET and PUT /preferences/{key}. Keys may contain slashes.
package preferences
