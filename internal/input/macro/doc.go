// Package macro records key events into registers and replays them.
//
// Vi records with "q{register}" ... "q" and replays with "@{register}";
// Emacs uses C-x ( ... C-x ) and C-x e with the KeyboardRegister. The key
// processor calls Record for every key it receives while not replaying.
package macro
