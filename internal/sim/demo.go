package sim

// Demo builds a small two-level datapath used by the demo entry point and
// the scene tests: a program counter loop (register, adder, source mux) next
// to an ALU that itself contains an arithmetic unit, a logic unit, and a
// result mux. It exercises every visual variant, constant absorption,
// interior wires, and a feedback cycle.
func Demo() *Component {
	core := NewComponent("core", TagGeneric)
	target := core.AddInput("target", 32)
	branch := core.AddInput("branch", 1)
	aluOp := core.AddInput("aluop", 1)
	result := core.AddOutput("result", 32)

	pc := core.AddSub(NewComponent("pc", TagRegister))
	pcIn := pc.AddInput("in", 32)
	pcOut := pc.AddOutput("out", 32)

	adder := core.AddSub(NewComponent("pc_adder", TagGeneric))
	addA := adder.AddInput("a", 32)
	addB := adder.AddInput("b", 32)
	addSum := adder.AddOutput("sum", 32)

	four := core.AddSub(NewComponent("c4", TagConstant))
	fourOut := four.AddOutput("out", 32)

	pcSrc := core.AddSub(NewComponent("pc_src", TagMultiplexer))
	srcSeq := pcSrc.AddInput("seq", 32)
	srcTgt := pcSrc.AddInput("target", 32)
	srcSel := pcSrc.AddInput("select", 1)
	srcOut := pcSrc.AddOutput("out", 32)
	pcSrc.SetSpecialPort(RoleSelect, srcSel)

	alu := core.AddSub(newALU())

	MustConnect(fourOut, addB)
	MustConnect(pcOut, addA)
	MustConnect(addSum, srcSeq)
	MustConnect(target, srcTgt)
	MustConnect(branch, srcSel)
	MustConnect(srcOut, pcIn)
	MustConnect(pcOut, alu.inputs[0])
	MustConnect(fourOut, alu.inputs[1])
	MustConnect(aluOp, alu.inputs[2])
	MustConnect(alu.outputs[0], result)

	fourOut.SetValue(4)
	return core
}

func newALU() *Component {
	alu := NewComponent("alu", TagGeneric)
	op1 := alu.AddInput("op1", 32)
	op2 := alu.AddInput("op2", 32)
	op := alu.AddInput("op", 1)
	res := alu.AddOutput("res", 32)

	arith := alu.AddSub(NewComponent("arith", TagGeneric))
	arithA := arith.AddInput("a", 32)
	arithB := arith.AddInput("b", 32)
	arithSum := arith.AddOutput("sum", 32)

	logic := alu.AddSub(NewComponent("logic", TagGeneric))
	logicA := logic.AddInput("a", 32)
	logicB := logic.AddInput("b", 32)
	logicRes := logic.AddOutput("res", 32)

	resMux := alu.AddSub(NewComponent("res_mux", TagMultiplexer))
	muxArith := resMux.AddInput("arith", 32)
	muxLogic := resMux.AddInput("logic", 32)
	muxSel := resMux.AddInput("select", 1)
	muxOut := resMux.AddOutput("out", 32)
	resMux.SetSpecialPort(RoleSelect, muxSel)

	MustConnect(op1, arithA)
	MustConnect(op1, logicA)
	MustConnect(op2, arithB)
	MustConnect(op2, logicB)
	MustConnect(arithSum, muxArith)
	MustConnect(logicRes, muxLogic)
	MustConnect(op, muxSel)
	MustConnect(muxOut, res)

	return alu
}
