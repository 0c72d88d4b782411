package election

// ElectionABI is the subset of the Election contract interface the portal
// calls. It is used when the artifact file carries no ABI of its own.
const ElectionABI = `[
	{"type":"function","name":"getAdmin","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getStart","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getEnd","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getTotalVoter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"voters","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"voterDetails","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[
		{"name":"voterAddress","type":"address"},
		{"name":"name","type":"string"},
		{"name":"phone","type":"string"},
		{"name":"aadhar","type":"string"},
		{"name":"isVerified","type":"bool"},
		{"name":"hasVoted","type":"bool"},
		{"name":"isRegistered","type":"bool"}
	]},
	{"type":"function","name":"isAadharRegistered","stateMutability":"view","inputs":[{"name":"_aadhar","type":"string"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"registerAsVoter","stateMutability":"nonpayable","inputs":[
		{"name":"_name","type":"string"},
		{"name":"_phone","type":"string"},
		{"name":"_aadhar","type":"string"}
	],"outputs":[]}
]`

const (
	methodGetAdmin           = "getAdmin"
	methodGetStart           = "getStart"
	methodGetEnd             = "getEnd"
	methodGetTotalVoter      = "getTotalVoter"
	methodVoters             = "voters"
	methodVoterDetails       = "voterDetails"
	methodIsAadharRegistered = "isAadharRegistered"
	methodRegisterAsVoter    = "registerAsVoter"
)
