package curve

// T256 is a curve whose scalar field is exactly the base field of P-256.
//
// This linkage is what lets commitments over T256 hold affine coordinates of
// P-256 points without any loss, which the cross curve proofs rely on.
var t256 = newWConfig(
	"T256",
	"115792089210356248762697446949407573530594504085698471288169790229257723883799",
	"115792089210356248762697446949407573530594504085698471288169790229257723883796",
	"81531206846337786915455327229510804132577517753388365729879493166393691077718",
	"3",
	"40902200210088653215032584946694356296222563095503428277299570638400093548589",
	"5",
	"28281484859698624956664858566852274012236038028101624500031073655422126514829",
	"115792089210356248762697446949407573530086143415290314195533631308867097853951",
)

// p256 is NIST P-256, extended with a second generator of unknown discrete log.
var p256 = newWConfig(
	"P-256",
	"115792089210356248762697446949407573530086143415290314195533631308867097853951",
	"115792089210356248762697446949407573530086143415290314195533631308867097853948",
	"41058363725152142129326129780047268409114441015993725554835256314039467401291",
	"48439561293906451759052585252797914202762949526041747995844080717082404635286",
	"36134250956749795798585127919587881956611106672985015071877198253568414405109",
	"5",
	"31468013646237722594854082025316614106172411895747863909393730389177298123724",
	"115792089210356248762697446949407573529996955224135760342422259061068512044369",
)

// T256 returns the commitment curve linked to P-256.
func T256() Curve {
	return t256
}

// P256 returns NIST P-256.
func P256() Curve {
	return p256
}
