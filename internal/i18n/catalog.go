package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

var german = map[string]string{
	"Payment method":                               "Zahlungsart",
	"Type":                                         "Typ",
	"Status":                                       "Status",
	"Weight":                                       "Gewichtung",
	"Operations":                                   "Aktionen",
	"Enabled":                                      "Aktiviert",
	"Disabled":                                     "Deaktiviert",
	"Edit":                                         "Bearbeiten",
	"Enable":                                       "Aktivieren",
	"Disable":                                      "Deaktivieren",
	"Delete":                                       "Löschen",
	"Add payment split method":                     "Aufteilungsart hinzufügen",
	"Add payment method":                           "Zahlungsart hinzufügen",
	"- Choose -":                                   "- Auswählen -",
	"Save configuration":                           "Konfiguration speichern",
	"No payment methods have been configured.":     "Es wurden keine Zahlungsarten konfiguriert.",
	"The configuration options have been saved.":   "Die Konfiguration wurde gespeichert.",
	"You must select the new payment method type.": "Sie müssen den Typ der neuen Zahlungsart auswählen.",
	"Machine name is required.":                    "Der maschinenlesbare Name ist erforderlich.",
}

func init() {
	for key, msg := range german {
		if err := message.SetString(language.German, key, msg); err != nil {
			panic(err)
		}
	}
}
