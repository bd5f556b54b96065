// Package errors provides structured, actionable error messages for the
// uploadbox CLI.
//
// Each error carries a code, a category and, where it helps, a detail
// paragraph, a source location inside a config file and a hint:
//
//	err := errors.New("C002").
//	    WithLocation("uploadbox.json", 7, 18).
//	    WithSuggestion("Remove the trailing comma after the last entry")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR C002: Invalid config file
//	//
//	//   uploadbox.json:7:18
//	//
//	//      6 │     "acceptedTypes": ["pdf", "png"],
//	//   →  7 │     "maxFileSize": 20,
//	//        │                  ^
//	//      8 │   }
//	//
//	//   Hint: Remove the trailing comma after the last entry
//
// # Error Codes
//
//   - C0xx: configuration
//   - V0xx: file validation
//   - N0xx: network calls against the host API
//   - S0xx: saving downloaded payloads
//   - U0xx: command line usage
package errors
