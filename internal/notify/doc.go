// Package notify delivers the status message to subscribers.
//
// Transports:
//   - LineNotifier: LINE Messaging API broadcast to every friend of the bot
//   - EmailNotifier: one SMTP mail to the configured recipient list
//   - WriterNotifier: writes the message to an io.Writer (dry runs, cron mail)
//
// Credentials come from the configuration file or the environment and are
// never logged; the log package redacts them if they slip into an attribute.
package notify
