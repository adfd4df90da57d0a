/*
Package lookup exposes the customer lookup to a calling workflow framework.

The framework hands a Function one JSON invocation per call:

	{
	  "inputs": {"FirstName": "Orlando", "MiddleName": "", "LastName": "Gee"},
	  "connection": {"secrets": {"connectionString": "Driver={ODBC Driver 18 for SQL Server};..."}}
	}

and receives the matching customers as a JSON array. The inputs value may also
be the same mapping encoded as a JSON string. The connection value may use the
configs/secrets layout or be a flat object with a connectionString key.
*/
package lookup
