package raydium

import (
	"encoding/binary"

	"vectai/native/common"
)

// SwapOpcode is the Raydium AMM V4 swap instruction discriminator.
const SwapOpcode byte = 9

// swapDataLen is opcode + two little-endian u64 amounts.
const swapDataLen = 1 + 8 + 8

// Instruction is a fully composed venue call: program id, positional account
// references, and the opaque data payload.
type Instruction struct {
	ProgramID common.Address
	Accounts  []AccountMeta
	Data      []byte
}

// Invoker performs the external venue call. Implementations submit the
// instruction through the host dispatch mechanism; tests substitute fakes.
type Invoker interface {
	Invoke(ix Instruction) error
}

// BuildSwapInstruction composes the AMM swap call for the supplied amounts.
// Data layout: [opcode u8 | amountIn u64 LE | minimumOut u64 LE]. The account
// set must already have passed whitelist validation.
func BuildSwapInstruction(program common.Address, accounts SwapAccounts, amountIn, minimumOut uint64) (Instruction, error) {
	if err := accounts.complete(); err != nil {
		return Instruction{}, err
	}
	data := make([]byte, swapDataLen)
	data[0] = SwapOpcode
	binary.LittleEndian.PutUint64(data[1:9], amountIn)
	binary.LittleEndian.PutUint64(data[9:17], minimumOut)
	return Instruction{
		ProgramID: program,
		Accounts:  accounts.Metas(),
		Data:      data,
	}, nil
}
