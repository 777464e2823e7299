/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribbles

var Words = []string{
	// pop culture
	"lightsaber", "hoverboard", "flux capacitor", "infinity gauntlet",
	"magic carpet", "sorting hat", "iron throne", "batmobile",
	"kryptonite", "pokeball", "tricorder", "proton pack",
	"golden snitch", "death star", "web shooter",

	// everyday objects
	"rubber duck", "whoopee cushion", "bubble wrap", "lava lamp",
	"bean bag chair", "disco ball", "fanny pack", "silly string",
	"pool noodle", "snow globe", "jack in the box", "pinwheel",

	// creatures
	"unicorn", "sasquatch", "yeti", "loch ness monster",
	"baby yoda", "pikachu", "minion", "shrek",
	"velociraptor", "t-rex", "narwhal", "sloth",

	// food
	"pizza slice", "fortune cookie", "corn dog", "waffle",
	"burrito", "sushi roll", "popsicle", "pretzel",
	"birthday cake", "taco", "donut", "pancake stack",

	// miscellaneous
	"mullet", "monocle", "cactus", "trampoline",
	"jetpack", "treehouse", "hamster wheel", "kazoo",
	"boomerang", "pirate ship", "time machine", "robot butler",
	"space helmet", "roller coaster", "bunk bed", "hammock",
	"cannon", "catapult", "confetti", "megaphone",
}
