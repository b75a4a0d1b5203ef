// Package paths provides centralized path handling for packorder.
//
// It resolves the game directory and the two locations the manager works
// with inside it:
//
//   - Packs directory: <game>/resourcepacks unless packs.dir is set
//   - Options document: <game>/options.txt unless options.file is set
//
// # Environment Variables
//
//   - PACKORDER_GAME_DIR: game directory (default: ~/.minecraft)
//
// Configuration values override the defaults; a leading "~/" is expanded
// against the user's home directory.
package paths
