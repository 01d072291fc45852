package keytool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const printcert = `Signer #1:

Certificate #1:
Owner: CN=Android Debug, O=Android, C=US
Issuer: CN=Android Debug, O=Android, C=US
Serial number: 1
Valid from: Mon Jan 01 00:00:00 UTC 2024 until: Wed Dec 25 00:00:00 UTC 2053
Certificate fingerprints:
	 SHA1: 61:ED:37:7E:85:D3:86:A8:DF:EE:6B:86:4B:D8:5B:0B:FA:A5:AF:81
	 SHA256: FA:C6:17:45:DC:09:03:78:6F:B9:ED:E6:2A:96:2B:39:9F:73:48:F0:BB:6F:89:9B:83:32:66:75:91:03:3B:9C
Signature algorithm name: SHA256withRSA
`

func TestParseSHA256CertFingerprints(t *testing.T) {
	fingerprints, err := ParseSHA256CertFingerprints(strings.NewReader(printcert))
	require.NoError(t, err)
	assert.Equal(t, "FA:C6:17:45:DC:09:03:78:6F:B9:ED:E6:2A:96:2B:39:9F:73:48:F0:BB:6F:89:9B:83:32:66:75:91:03:3B:9C", fingerprints)

	_, err = ParseSHA256CertFingerprints(strings.NewReader("Not a signed jar file\n"))
	assert.Error(t, err)
}
