package bindings

import "github.com/dshills/promptline/internal/input"

// Action names for cursor movement.
const (
	ActionLeft         = "cursor.left"
	ActionRight        = "cursor.right"
	ActionUp           = "cursor.up"
	ActionDown         = "cursor.down"
	ActionLineStart    = "cursor.lineStart"
	ActionLineEnd      = "cursor.lineEnd"
	ActionWordForward  = "cursor.wordForward"
	ActionWordBackward = "cursor.wordBackward"
	ActionBufferStart  = "cursor.bufferStart"
	ActionBufferEnd    = "cursor.bufferEnd"
)

// Action names for text editing.
const (
	ActionSelfInsert     = input.FallbackAction
	ActionPaste          = "edit.paste"
	ActionDeleteBefore   = "edit.deleteCharBefore"
	ActionDelete         = "edit.deleteChar"
	ActionDeleteOrExit   = "edit.deleteCharOrExit"
	ActionNewline        = "edit.newline"
	ActionKillLine       = "edit.killLine"
	ActionKillLineBefore = "edit.killLineBefore"
	ActionKillWord       = "edit.killWord"
	ActionKillWordBefore = "edit.killWordBefore"
	ActionUnixWordRubout = "edit.unixWordRubout"
	ActionYank           = "edit.yank"
	ActionYankPop        = "edit.yankPop"
	ActionTransposeChars = "edit.transposeChars"
	ActionUpcaseWord     = "edit.upcaseWord"
	ActionDowncaseWord   = "edit.downcaseWord"
	ActionCapitalizeWord = "edit.capitalizeWord"
	ActionUndo           = "edit.undo"
	ActionRedo           = "edit.redo"
)

// Action names that talk to the session.
const (
	ActionAccept      = "session.accept"
	ActionAbort       = "session.abort"
	ActionSuspend     = "session.suspend"
	ActionClearScreen = "session.clearScreen"
	ActionMouse       = "session.mouse"
)

// Action names for the completion menu.
const (
	ActionCompleteNext   = "completion.next"
	ActionCompletePrev   = "completion.previous"
	ActionCompleteAccept = "completion.accept"
	ActionCompleteCancel = "completion.cancel"
)

// Action names for keyboard macros.
const (
	ActionMacroStart = "macro.start"
	ActionMacroStop  = "macro.stop"
	ActionMacroPlay  = "macro.play"
)

// Action names for Vi.
const (
	ActionViEscape          = "vi.escape"
	ActionViCancel          = "vi.cancel"
	ActionViInsert          = "vi.insert"
	ActionViAppend          = "vi.append"
	ActionViInsertLineStart = "vi.insertLineStart"
	ActionViAppendLineEnd   = "vi.appendLineEnd"
	ActionViOpenBelow       = "vi.openBelow"
	ActionViOpenAbove       = "vi.openAbove"
	ActionViReplaceMode     = "vi.replaceMode"
	ActionViReplaceChar     = "vi.replaceChar"
	ActionViDeleteChar      = "vi.deleteChar"
	ActionViDeleteBefore    = "vi.deleteCharBefore"
	ActionViSubstitute      = "vi.substitute"
	ActionViSubstituteLine  = "vi.substituteLine"
	ActionViDeleteToEnd     = "vi.deleteToEnd"
	ActionViChangeToEnd     = "vi.changeToEnd"
	ActionViYankLine        = "vi.yankLine"
	ActionViPasteAfter      = "vi.pasteAfter"
	ActionViPasteBefore     = "vi.pasteBefore"
	ActionViJoinLines       = "vi.joinLines"
	ActionViSwapCase        = "vi.swapCase"
	ActionViRepeatFind      = "vi.repeatFind"
	ActionViRepeatFindBack  = "vi.repeatFindReverse"
	ActionViMotion          = "vi.motion"
	ActionViOperator        = "vi.operator"
	ActionViOperatorLine    = "vi.operatorLine"
	ActionViTextObject      = "vi.textObject"
	ActionViVisual          = "vi.visual"
	ActionViVisualLine      = "vi.visualLine"
	ActionViVisualBlock     = "vi.visualBlock"
	ActionViVisualExit      = "vi.visualExit"
	ActionViVisualSwap      = "vi.visualSwapEnds"
	ActionViVisualOperator  = "vi.visualOperator"
	ActionViVisualObject    = "vi.visualTextObject"
	ActionViMacroRecord     = "vi.macroRecord"
	ActionViMacroStop       = "vi.macroStop"
	ActionViMacroPlay       = "vi.macroPlay"
)
