package core

// catalog returns the static record type definitions in declaration order.
// The order is a documented contract: when two types both clear the match
// threshold, the earlier one wins.
func catalog() []RecordType {
	return []RecordType{
		{
			Name:   "Contacts",
			Fields: []string{"name", "phone_number", "email", "last_contacted"},
			Kinds:  []FieldKind{KindText, KindText, KindText, KindTimestamp},
			Aliases: map[string]string{
				"Name":           "name",
				"Phone Number":   "phone_number",
				"Email Id":       "email",
				"Last Contacted": "last_contacted",
			},
		},
		{
			Name:   "InstalledApps",
			Fields: []string{"application_name", "package_name", "install_date"},
			Kinds:  []FieldKind{KindText, KindText, KindTimestamp},
			Aliases: map[string]string{
				"Application Name": "application_name",
				"Package Name":     "package_name",
				"Installed Date":   "install_date",
			},
		},
		{
			Name:   "Calls",
			Fields: []string{"call_type", "time", "from_to", "duration", "location"},
			Kinds:  []FieldKind{KindText, KindTimestamp, KindText, KindInteger, KindText},
			Aliases: map[string]string{
				"Call type":      "call_type",
				"Time":           "time",
				"From/To":        "from_to",
				"Duration (Sec)": "duration",
				"Location":       "location",
			},
		},
		{
			Name:   "SMS",
			Fields: []string{"sms_type", "time", "from_to", "text", "location"},
			Kinds:  []FieldKind{KindText, KindTimestamp, KindText, KindText, KindText},
			Aliases: map[string]string{
				"SMS type": "sms_type",
				"Time":     "time",
				"From/To":  "from_to",
				"Text":     "text",
				"Location": "location",
			},
		},
		{
			Name:   "ChatMessages",
			Fields: []string{"messenger", "time", "sender", "text"},
			Kinds:  []FieldKind{KindText, KindTimestamp, KindText, KindText},
			Aliases: map[string]string{
				"Messenger": "messenger",
				"Time":      "time",
				"Sender":    "sender",
				"Text":      "text",
			},
		},
		{
			Name:   "Keylogs",
			Fields: []string{"application", "time", "text"},
			Kinds:  []FieldKind{KindText, KindTimestamp, KindText},
			Aliases: map[string]string{
				"Application": "application",
				"Time":        "time",
				"Text":        "text",
			},
		},
		{
			// Vendor exports sometimes label keylog dumps differently; the
			// shape is identical and rows land in the Keylogs table.
			Name:   "KeylogImport",
			Table:  "Keylogs",
			Fields: []string{"application", "time", "text"},
			Kinds:  []FieldKind{KindText, KindTimestamp, KindText},
			Aliases: map[string]string{
				"Application": "application",
				"Time":        "time",
				"Text":        "text",
			},
		},
	}
}
