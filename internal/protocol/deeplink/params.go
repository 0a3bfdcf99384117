package deeplink

// DefaultBaseURL is the peer's universal-link API root.
const DefaultBaseURL = "https://phantom.app/ul/v1"

// Query parameter names used on the wire.
const (
	ParamDappEncryptionPublicKey = "dapp_encryption_public_key"
	ParamRedirectLink            = "redirect_link"
	ParamAppURL                  = "app_url"
	ParamCluster                 = "cluster"
	ParamNonce                   = "nonce"
	ParamPayload                 = "payload"
	ParamData                    = "data"
	ParamPeerEncryptionPublicKey = "phantom_encryption_public_key"
	ParamErrorCode               = "errorCode"
	ParamErrorMessage            = "errorMessage"
)

// Plaintext JSON field names. The peer has used both snake and camel case.
const (
	fieldPublicKey            = "public_key"
	fieldPublicKeyAlt         = "publicKey"
	fieldSession              = "session"
	fieldSignedTransaction    = "signed_transaction"
	fieldSignedTransactionAlt = "signedTransaction"
)

// signPayload is the plaintext sealed into a sign request.
type signPayload struct {
	Transaction string `json:"transaction"` // base64
	Session     string `json:"session"`
}
